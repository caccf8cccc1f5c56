package session

import "fmt"

// Summary is the result of a completed quiz.
type Summary struct {
	Score     int
	Answered  int
	Total     int
	MaxStreak int

	// Accuracy is Score/Answered, 0 when nothing was answered.
	Accuracy float64

	// StillLoading counts questions that never arrived.
	StillLoading int

	FollowUpUnlocked bool

	// HighScore and HighStreak are the stored bests after this result.
	HighScore     int
	HighStreak    int
	NewHighScore  bool
	NewHighStreak bool
}

// followUpUnlocked reports whether more than half of the answered questions
// were right.
func followUpUnlocked(score, answered int) bool {
	return 2*score > answered
}

func buildSummary(st State, loaded, total int) *Summary {
	answered := min(st.CurrentIndex, loaded)
	var accuracy float64
	if answered > 0 {
		accuracy = float64(st.Score) / float64(answered)
	}
	return &Summary{
		Score:            st.Score,
		Answered:         answered,
		Total:            total,
		MaxStreak:        st.MaxStreak,
		Accuracy:         accuracy,
		StillLoading:     max(total-answered, 0),
		FollowUpUnlocked: followUpUnlocked(st.Score, answered),
	}
}

// Note explains a short quiz, or returns "".
func (s *Summary) Note() string {
	if s.StillLoading <= 0 {
		return ""
	}
	return fmt.Sprintf("%d questions were still loading", s.StillLoading)
}
