package questiongen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhisek/codetrainer/internal/quiz"
)

var errMissingQuestion = errors.New("backend reply has no question")

// DefaultRemotePath is where the backend function serves questions.
const DefaultRemotePath = "/api/question"

// RemoteProvider fetches questions from the backend function over HTTP.
type RemoteProvider struct {
	url    string
	client *http.Client
}

// NewRemoteProvider targets the backend function at url. A nil client gets
// one with a 60s timeout.
func NewRemoteProvider(url string, client *http.Client) *RemoteProvider {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &RemoteProvider{url: url, client: client}
}

// Reply is the body the backend function returns on success.
type Reply struct {
	Question *quiz.Question `json:"question"`
}

// ErrorReply is the body the backend function returns on failure.
type ErrorReply struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (p *RemoteProvider) Generate(ctx context.Context, req Request) (*quiz.Question, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode question request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build question request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request question %d: %w", req.QuestionIndex+1, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read question response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e ErrorReply
		_ = json.Unmarshal(data, &e)
		return nil, &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, fmt.Errorf("decode question response: %w", err)
	}
	if reply.Question == nil {
		return nil, errMissingQuestion
	}
	return reply.Question, nil
}
