package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/codetrainer/internal/quiz"
)

const quizTable = "quizzes"

type quizRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *quizRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *quizRepo) Create(ctx context.Context, q *quiz.Quiz) (int64, error) {
	q.HighScore, q.HighStreak = 0, 0
	if q.Date.IsZero() {
		q.Date = r.clock()
	}
	id, err := r.insert(ctx, r.db, toDocument(q))
	if err != nil {
		return 0, fmt.Errorf("create quiz: %w", err)
	}
	q.ID = id
	return id, nil
}

func (r *quizRepo) insert(ctx context.Context, ex execer, d document) (int64, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return 0, err
	}
	query, args := builder.Insert(quizTable).Columns("data").Values(string(data)).Query()
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *quizRepo) Put(ctx context.Context, q *quiz.Quiz) error {
	if q.ID == 0 {
		return errors.New("put quiz: quiz has no id")
	}
	if err := r.write(ctx, r.db, q.ID, toDocument(q)); err != nil {
		return fmt.Errorf("put quiz %d: %w", q.ID, err)
	}
	return nil
}

// write upserts document d under id.
func (r *quizRepo) write(ctx context.Context, ex execer, id int64, d document) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	query, args := builder.Insert(quizTable).
		Columns("id", "data").
		Values(id, string(data)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	_, err = ex.ExecContext(ctx, query, args...)
	return err
}

func (r *quizRepo) Update(ctx context.Context, id int64, p Patch) error {
	return r.modify(ctx, id, func(d *document) {
		if p.Topic != nil {
			d.Topic = *p.Topic
		}
		if p.Difficulty != nil {
			d.Difficulty = *p.Difficulty
		}
		if p.Questions != nil {
			d.Questions = p.Questions
		}
		if p.TotalQuestions != nil {
			d.TotalQuestions = *p.TotalQuestions
		}
		if p.IsLoading != nil {
			d.IsLoading = *p.IsLoading
		}
	})
}

// RecordResult overwrites a stored value when it is 0 or the new value is
// strictly greater. A stored 0 cannot be told apart from "never played",
// so a real score of 0 is replaced by any later score, including 0.
func (r *quizRepo) RecordResult(ctx context.Context, id int64, score, streak int) (Result, error) {
	var res Result
	err := r.modify(ctx, id, func(d *document) {
		if d.HighScore == 0 || score > d.HighScore {
			res.ScoreImproved = score > d.HighScore
			d.HighScore = score
		}
		if d.HighStreak == 0 || streak > d.HighStreak {
			res.StreakImproved = streak > d.HighStreak
			d.HighStreak = streak
		}
		res.HighScore, res.HighStreak = d.HighScore, d.HighStreak
	})
	return res, err
}

// modify runs a read-modify-write of quiz id inside a transaction.
func (r *quizRepo) modify(ctx context.Context, id int64, fn func(*document)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	d, err := r.load(ctx, tx, id)
	if err != nil {
		return err
	}
	fn(&d)
	if err := r.write(ctx, tx, id, d); err != nil {
		return fmt.Errorf("update quiz %d: %w", id, err)
	}
	return tx.Commit()
}

func (r *quizRepo) load(ctx context.Context, q querier, id int64) (document, error) {
	query, args := builder.Select("data").
		From(builder.Table(quizTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var data string
	err := q.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return document{}, fmt.Errorf("quiz %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return document{}, fmt.Errorf("load quiz %d: %w", id, err)
	}
	d, err := decodeDocument(data)
	if err != nil {
		return document{}, fmt.Errorf("decode quiz %d: %w", id, err)
	}
	return d, nil
}

func (r *quizRepo) Get(ctx context.Context, id int64) (*quiz.Quiz, error) {
	d, err := r.load(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return d.toQuiz(id, r.clock()), nil
}

// List skips records whose JSON cannot be decoded at all.
func (r *quizRepo) List(ctx context.Context) ([]*quiz.Quiz, error) {
	query, args := builder.Select("id", "data").From(builder.Table(quizTable)).Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	now := r.clock()
	var out []*quiz.Quiz
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		d, err := decodeDocument(data)
		if err != nil {
			continue
		}
		out = append(out, d.toQuiz(id, now))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *quizRepo) Delete(ctx context.Context, id int64) error {
	query, args := builder.Delete(quizTable).Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete quiz %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("quiz %d: %w", id, ErrNotFound)
	}
	return nil
}

// Import keeps the high scores of imported records and resolves their
// dates, so legacy strings are rewritten as ISO-8601.
func (r *quizRepo) Import(ctx context.Context, src io.Reader) (int, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(src).Decode(&raw); err != nil {
		return 0, fmt.Errorf("import: expected a JSON array of quizzes: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := r.clock()
	n := 0
	for i, msg := range raw {
		d, err := decodeDocument(string(msg))
		if err != nil {
			return 0, fmt.Errorf("import record %d: %w", i, err)
		}
		q := d.toQuiz(0, now)
		q.IsLoading = false
		if _, err := r.insert(ctx, tx, toDocument(q)); err != nil {
			return 0, fmt.Errorf("import record %d: %w", i, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
