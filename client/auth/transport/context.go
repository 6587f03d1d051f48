package transport

import "context"

type (
	contextRetryKey string
)

const (
	ContextNoRetryKey contextRetryKey = "authNoRetry"
)

// WithoutRetry marks requests built with ctx as already retried: an
// unauthorized response is returned as-is without refreshing credentials.
func WithoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextNoRetryKey, true)
}

func retryDisabled(ctx context.Context) bool {
	if v := ctx.Value(ContextNoRetryKey); v != nil {
		disabled, _ := v.(bool)
		return disabled
	}
	return false
}
