package llm

import "context"

type ctxKey struct{}

// WithPurpose tags ctx with what a request is for ("question", "follow_up").
// The tag ends up in the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, ctxKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(ctxKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
