package render

import (
	"strings"
	"testing"
	"time"

	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/session"
)

func sampleQuestion() quiz.Question {
	return quiz.Question{
		ID:          2,
		Prompt:      "Which builtin makes a channel?",
		CodeSnippet: "ch := ____(chan int)",
		Options: []quiz.Option{
			quiz.NewOption("new", false),
			quiz.NewOption("make", true),
			quiz.NewOption("chan", false),
			quiz.NewOption("alloc", false),
		},
		Explanation: "Channels are created with make.",
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"a", 0, true},
		{" B ", 1, true},
		{"4", 3, true},
		{"D", 3, true},
		{"E", 0, false},
		{"5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseChoice(tt.in, 4)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseChoice(%q) = %d, %t; want %d, %t", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestQuestion(t *testing.T) {
	out := Question(sampleQuestion(), 2, 5)
	for _, want := range []string{"Question 2 of 5", "Which builtin makes a channel?", "ch := ", "make", "alloc"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFeedback(t *testing.T) {
	q := sampleQuestion()
	ev := quiz.Evaluate(q, 0, quiz.Tally{Score: 3, Streak: 2, MaxStreak: 2})
	out := Feedback(q, ev)

	for _, want := range []string{"Incorrect.", "✗", "✓", "ch := make(chan int)", "Channels are created with make."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	ev = quiz.Evaluate(q, 1, quiz.Tally{})
	if out := Feedback(q, ev); !strings.Contains(out, "Correct!") {
		t.Errorf("correct answer not announced:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	out := Summary(&session.Summary{
		Score: 2, Answered: 3, Total: 5, MaxStreak: 2, Accuracy: 2.0 / 3,
		StillLoading: 2, FollowUpUnlocked: true, HighScore: 2, HighStreak: 2, NewHighScore: true,
	})
	for _, want := range []string{"2 / 3", "67%", "2 questions were still loading", "New record!", "Follow-up quiz unlocked."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuizRow(t *testing.T) {
	q := &quiz.Quiz{
		ID:             4,
		Topic:          "SQL joins",
		Difficulty:     quiz.Advanced,
		Questions:      make([]quiz.Question, 2),
		TotalQuestions: 5,
		IsLoading:      true,
		Date:           time.Date(2025, 1, 2, 3, 4, 0, 0, time.Local),
		HighScore:      1,
	}
	row := QuizRow(q)
	want := []string{"4", "SQL joins", "Advanced", "2/5 (loading)", "1", "0", "2025-01-02 03:04"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, row[i], want[i])
		}
	}

	if out := QuizTable([]*quiz.Quiz{q}); !strings.Contains(out, "SQL joins") {
		t.Errorf("table missing topic:\n%s", out)
	}
}

func TestProgress(t *testing.T) {
	out := Progress("Loading", 0.5, 40)
	if !strings.Contains(out, "50%") || !strings.Contains(out, "Loading") {
		t.Errorf("unexpected progress bar: %q", out)
	}
}
