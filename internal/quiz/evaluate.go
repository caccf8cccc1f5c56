package quiz

// Tally holds the running counters of a session.
type Tally struct {
	Score     int
	Streak    int
	MaxStreak int
}

// Record returns the tally after one answer. A correct answer extends the
// streak; a wrong one resets it and leaves score and max streak alone.
func (t Tally) Record(correct bool) Tally {
	if !correct {
		t.Streak = 0
		return t
	}
	t.Score++
	t.Streak++
	if t.Streak > t.MaxStreak {
		t.MaxStreak = t.Streak
	}
	return t
}

// OptionMark classifies an option for display after an answer.
type OptionMark struct {
	Correct  bool
	Selected bool
}

// Wrong reports whether the option was picked but is not the answer.
func (m OptionMark) Wrong() bool { return m.Selected && !m.Correct }

// Evaluation is the outcome of answering one question.
type Evaluation struct {
	IsCorrect bool
	Tally     Tally
	Marks     []OptionMark
}

// Evaluate scores choice against q and returns the updated tally.
//
// choice must index into q.Options. Evaluate is pure; callers that render
// the same answer more than once must reuse the first Evaluation instead of
// evaluating again.
func Evaluate(q Question, choice int, t Tally) Evaluation {
	correct := q.Options[choice].Correct()

	marks := make([]OptionMark, len(q.Options))
	for i, o := range q.Options {
		marks[i] = OptionMark{Correct: o.Correct(), Selected: i == choice}
	}

	return Evaluation{
		IsCorrect: correct,
		Tally:     t.Record(correct),
		Marks:     marks,
	}
}
