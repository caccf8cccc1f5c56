// Package render turns quiz state into styled terminal text.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/session"
	"github.com/abhisek/codetrainer/internal/ui/theme"
)

// Labels name the options in display order.
var Labels = []string{"A", "B", "C", "D"}

// Label returns the display label of option i.
func Label(i int) string {
	if i >= 0 && i < len(Labels) {
		return Labels[i]
	}
	return fmt.Sprint(i + 1)
}

// ParseChoice maps "a", "B" or "3" to an option index.
func ParseChoice(s string, options int) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := 0; i < options; i++ {
		if s == Label(i) || s == fmt.Sprint(i+1) {
			return i, true
		}
	}
	return 0, false
}

// Question renders the prompt, the snippet with its blank highlighted, and
// the options.
func Question(q quiz.Question, position, total int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", position, total)))
	b.WriteString("\n\n")
	b.WriteString(theme.Prompt.Render(q.Prompt))
	b.WriteString("\n")
	b.WriteString(theme.Code.Render(highlightBlank(q.CodeSnippet)))
	b.WriteString("\n")
	for i, o := range q.Options {
		fmt.Fprintf(&b, "  %s  %s\n", theme.OptionLabel.Render(Label(i)), theme.Unselected.Render(o.Option))
	}
	return b.String()
}

func highlightBlank(code string) string {
	return strings.ReplaceAll(code, quiz.BlankMarker, theme.Blank.Render(quiz.BlankMarker))
}

// Feedback renders the options with their marks, the verdict, the
// completed snippet and the explanation.
func Feedback(q quiz.Question, ev quiz.Evaluation) string {
	var b strings.Builder
	for i, o := range q.Options {
		mark := ev.Marks[i]
		style, sign := theme.Unselected, " "
		switch {
		case mark.Correct:
			style, sign = theme.Correct, "✓"
		case mark.Wrong():
			style, sign = theme.Incorrect, "✗"
		}
		fmt.Fprintf(&b, "%s %s  %s\n", style.Render(sign), theme.OptionLabel.Render(Label(i)), style.Render(o.Option))
	}
	b.WriteString("\n")

	if ev.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Incorrect."))
	}
	fmt.Fprintf(&b, "  %s\n", theme.Subtitle.Render(fmt.Sprintf("score %d · streak %d", ev.Tally.Score, ev.Tally.Streak)))

	if idx := q.CorrectIndex(); idx >= 0 {
		b.WriteString(theme.Code.Render(q.Fill(q.Options[idx].Option)))
		b.WriteString("\n")
	}
	if q.Explanation != "" {
		b.WriteString(theme.Hint.Render(q.Explanation))
		b.WriteString("\n")
	}
	return b.String()
}

// Progress renders a horizontal bar for percent in [0,1].
func Progress(label string, percent float64, width int) string {
	var result string
	if label != "" {
		result = theme.Body.Render(label) + "  "
	}

	barWidth := max(width-lipgloss.Width(result)-6, 4)
	filled := min(max(int(float64(barWidth)*percent), 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	result += theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(percent*100)))
	return result
}

// Summary renders the result screen.
func Summary(s *session.Summary) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Score       %s\n", theme.Prompt.Render(fmt.Sprintf("%d / %d", s.Score, s.Answered)))
	fmt.Fprintf(&b, "Accuracy    %d%%\n", int(s.Accuracy*100+0.5))
	fmt.Fprintf(&b, "Best streak %d\n", s.MaxStreak)
	if note := s.Note(); note != "" {
		fmt.Fprintf(&b, "%s\n", theme.Warning.Render("("+note+")"))
	}

	b.WriteString("\n")
	high := fmt.Sprintf("High score %d · high streak %d", s.HighScore, s.HighStreak)
	b.WriteString(theme.Subtitle.Render(high))
	if s.NewHighScore || s.NewHighStreak {
		b.WriteString("  " + theme.Correct.Render("New record!"))
	}
	b.WriteString("\n")

	if s.FollowUpUnlocked {
		b.WriteString(theme.Correct.Render("Follow-up quiz unlocked."))
	} else {
		b.WriteString(theme.Hint.Render("Score more than half to unlock a follow-up quiz."))
	}
	b.WriteString("\n")
	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}
