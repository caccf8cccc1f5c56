package questiongen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/codetrainer/internal/llm"
)

// Kind groups failures by what the learner should be told.
type Kind int

const (
	KindServer Kind = iota
	KindUnauthorized
	KindRateLimited
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "server"
	}
}

// StatusError is a non-2xx reply from the backend function.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// KindOf classifies err. Backend status codes and LLM provider errors are
// both understood.
func KindOf(err error) Kind {
	var se *StatusError
	if errors.As(err, &se) {
		return kindOfStatus(se.Code)
	}

	var (
		unauthorized *llm.ErrUnauthorized
		rateLimit    *llm.ErrRateLimit
		quota        *llm.ErrQuotaExceeded
		unavailable  *llm.ErrProviderUnavailable
	)
	switch {
	case errors.As(err, &unauthorized):
		return KindUnauthorized
	case errors.As(err, &rateLimit):
		return KindRateLimited
	case errors.As(err, &quota), errors.As(err, &unavailable):
		return KindUnavailable
	}
	return KindServer
}

func kindOfStatus(code int) Kind {
	switch code {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusPaymentRequired, http.StatusServiceUnavailable:
		return KindUnavailable
	}
	return KindServer
}

// UserMessage turns err into the text shown to the learner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindUnauthorized:
		return "Invalid API key configuration. Please contact support."
	case KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindUnavailable:
		return "Service temporarily unavailable. Please try again later."
	}

	var se *StatusError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return fmt.Sprintf("Server error: %d. Please try again.", se.Code)
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
