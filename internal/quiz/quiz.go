package quiz

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// BlankMarker is the placeholder in a code snippet that the learner fills in.
const BlankMarker = "____"

// OptionsPerQuestion is the fixed number of answer options per question.
const OptionsPerQuestion = 4

// Quiz is one generated set of questions on a topic.
//
// Questions may be shorter than TotalQuestions while acquisition is still
// running. Questions is append-only: entries are never rewritten once added.
type Quiz struct {
	// ID is assigned by the store. Zero means the quiz was never persisted.
	ID int64 `json:"id,omitempty"`

	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`

	// TotalQuestions is the requested count, not the number acquired.
	TotalQuestions int `json:"totalQuestions"`

	// IsLoading is true while more questions may still arrive.
	IsLoading bool `json:"isLoading"`

	Date       time.Time `json:"date"`
	HighScore  int       `json:"highScore"`
	HighStreak int       `json:"highStreak"`
}

// Total returns the declared question count, falling back to the number of
// questions present for records saved before TotalQuestions existed.
func (q *Quiz) Total() int {
	if q.TotalQuestions > 0 {
		return q.TotalQuestions
	}
	return len(q.Questions)
}

// Clone returns a copy that shares no slices with q.
func (q *Quiz) Clone() *Quiz {
	c := *q
	c.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		c.Questions[i] = qq.Clone()
	}
	return &c
}

// Question is a single fill-in-the-blank code question.
type Question struct {
	// ID is the 1-based position of the question in its quiz.
	ID          int      `json:"id"`
	Prompt      string   `json:"prompt"`
	CodeSnippet string   `json:"code_snippet"`
	Options     []Option `json:"options"`
	Explanation string   `json:"explanation"`
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	q.Options = append([]Option(nil), q.Options...)
	return q
}

// CorrectCount returns how many options resolve as correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.Correct() {
			n++
		}
	}
	return n
}

// CorrectIndex returns the index of the first correct option, or -1.
func (q Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o.Correct() {
			return i
		}
	}
	return -1
}

// BlankCount returns the number of blank markers in the code snippet.
func (q Question) BlankCount() int {
	return strings.Count(q.CodeSnippet, BlankMarker)
}

// Fill returns the code snippet with every blank replaced by text.
func (q Question) Fill(text string) string {
	return strings.ReplaceAll(q.CodeSnippet, BlankMarker, text)
}

// Option is one answer choice.
//
// Current records carry IsCorrect. Older records omit it and mark the right
// answer with is_best, is_correct or answer_type "best" instead.
type Option struct {
	Option    string `json:"option"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`

	IsBest        Flag   `json:"is_best,omitempty"`
	LegacyCorrect Flag   `json:"is_correct,omitempty"`
	AnswerType    string `json:"answer_type,omitempty"`
}

// NewOption returns an option with an explicit correctness flag.
func NewOption(text string, correct bool) Option {
	return Option{Option: text, IsCorrect: &correct}
}

// Correct resolves whether this option is the right answer. A defined
// IsCorrect wins; otherwise any legacy marker counts.
func (o Option) Correct() bool {
	if o.IsCorrect != nil {
		return *o.IsCorrect
	}
	return bool(o.IsBest) || bool(o.LegacyCorrect) || o.AnswerType == "best"
}

// Flag is a loosely typed boolean from older records. It decodes any JSON
// value the way a browser would test it for truthiness.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Flag(truthy(v))
	return nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}
