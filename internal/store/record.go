package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/abhisek/codetrainer/internal/quiz"
)

// document is the stored JSON shape of a quiz. Every field is optional on
// read so older records decode with defaults.
type document struct {
	ID             int64           `json:"id,omitempty"`
	Topic          string          `json:"topic"`
	Difficulty     quiz.Difficulty `json:"difficulty"`
	Questions      []quiz.Question `json:"questions"`
	TotalQuestions int             `json:"totalQuestions"`
	IsLoading      bool            `json:"isLoading"`
	Date           string          `json:"date,omitempty"`
	Created        string          `json:"created,omitempty"`
	HighScore      int             `json:"highScore"`
	HighStreak     int             `json:"highStreak"`
}

func toDocument(q *quiz.Quiz) document {
	return document{
		Topic:          q.Topic,
		Difficulty:     q.Difficulty,
		Questions:      q.Questions,
		TotalQuestions: q.TotalQuestions,
		IsLoading:      q.IsLoading,
		Date:           q.Date.UTC().Format(time.RFC3339Nano),
		HighScore:      q.HighScore,
		HighStreak:     q.HighStreak,
	}
}

// toQuiz converts d, resolving its date against now.
func (d document) toQuiz(id int64, now time.Time) *quiz.Quiz {
	raw := d.Date
	if raw == "" {
		raw = d.Created
	}
	q := &quiz.Quiz{
		ID:             id,
		Topic:          d.Topic,
		Difficulty:     d.Difficulty,
		Questions:      d.Questions,
		TotalQuestions: d.TotalQuestions,
		IsLoading:      d.IsLoading,
		Date:           parseDate(raw, now),
		HighScore:      d.HighScore,
		HighStreak:     d.HighStreak,
	}
	if q.Questions == nil {
		q.Questions = []quiz.Question{}
	}
	return q
}

func decodeDocument(data string) (document, error) {
	var d document
	err := json.Unmarshal([]byte(data), &d)
	return d, err
}

// Layouts tried for dates written by browsers' toLocaleString and friends,
// after ISO-8601. Local ones are read in the machine's zone.
var localDateLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	"1/2/2006, 15:04:05",
	"2/1/2006, 15:04:05",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
	"2.1.2006, 15:04:05",
	"1/2/2006",
	"2006-01-02",
	"Mon Jan 02 2006 15:04:05",
}

// parseDate reads ISO-8601 or a legacy local date string. Anything else
// yields now so listing never fails on a bad record.
func parseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// Date.toString() appends " GMT+0100 (Central European Time)".
	if i := strings.Index(s, " GMT"); i > 0 {
		s = s[:i]
	}
	for _, layout := range localDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return now
}
