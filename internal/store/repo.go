package store

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/abhisek/codetrainer/internal/quiz"
)

// ErrNotFound is returned when a quiz id does not exist.
var ErrNotFound = errors.New("store: not found")

// QuizRepo persists quizzes as whole documents keyed by id.
type QuizRepo interface {
	// Create inserts q with zeroed high scores, stamps Date when unset and
	// writes the new id back into q.
	Create(ctx context.Context, q *quiz.Quiz) (int64, error)

	// Put replaces the stored document for q.ID, inserting it if missing.
	Put(ctx context.Context, q *quiz.Quiz) error

	// Update applies the non-nil fields of p to quiz id.
	Update(ctx context.Context, id int64, p Patch) error

	// RecordResult ratchets the stored high score and streak.
	RecordResult(ctx context.Context, id int64, score, streak int) (Result, error)

	Get(ctx context.Context, id int64) (*quiz.Quiz, error)

	// List returns every quiz, newest first.
	List(ctx context.Context) ([]*quiz.Quiz, error)

	Delete(ctx context.Context, id int64) error

	// Import reads a JSON array of exported quiz records and stores each
	// as a new quiz. It returns how many were imported.
	Import(ctx context.Context, r io.Reader) (int, error)
}

// Patch lists optional fields for QuizRepo.Update.
type Patch struct {
	Topic          *string
	Difficulty     *quiz.Difficulty
	Questions      []quiz.Question
	TotalQuestions *int
	IsLoading      *bool
}

// Result reports the stored values after RecordResult.
type Result struct {
	HighScore      int
	HighStreak     int
	ScoreImproved  bool
	StreakImproved bool
}

// QueryOpts filters and pages event queries.
type QueryOpts struct {
	Limit   int       // 0 = no limit
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string
}

// LLMRequestEventData is one LLM call as written by the logging provider.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// UsageRow aggregates LLM events sharing a key (purpose or model).
type UsageRow struct {
	Key          string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// EventRepo is the append-only LLM request log.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	GetLLMEvent(ctx context.Context, seq int64) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]UsageRow, error)
	LLMUsageByModel(ctx context.Context) ([]UsageRow, error)
}
