package render

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/codetrainer/internal/quiz"
	"github.com/abhisek/codetrainer/internal/ui/theme"
)

// Table renders rows under headers with the theme's border.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			return theme.TableCell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// QuizTable lists saved quizzes, newest first as given.
func QuizTable(quizzes []*quiz.Quiz) string {
	rows := make([][]string, 0, len(quizzes))
	for _, q := range quizzes {
		rows = append(rows, QuizRow(q))
	}
	return Table([]string{"ID", "Topic", "Difficulty", "Questions", "Best", "Streak", "Date"}, rows)
}

// QuizRow is one line of QuizTable.
func QuizRow(q *quiz.Quiz) []string {
	count := fmt.Sprintf("%d", len(q.Questions))
	if len(q.Questions) < q.Total() {
		count = fmt.Sprintf("%d/%d", len(q.Questions), q.Total())
	}
	if q.IsLoading {
		count += " (loading)"
	}
	return []string{
		fmt.Sprintf("%d", q.ID),
		q.Topic,
		q.Difficulty.String(),
		count,
		fmt.Sprintf("%d", q.HighScore),
		fmt.Sprintf("%d", q.HighStreak),
		q.Date.Local().Format("2006-01-02 15:04"),
	}
}
