package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidPassword is returned by Register before any network call.
	ErrInvalidPassword = errors.New("password must be at least 8 characters long, contain at least one uppercase letter, one lowercase letter, one digit, and one special character")

	// ErrInvalidTrade is returned by Trade for a request the exchange would reject.
	ErrInvalidTrade = errors.New("invalid trade")
)

// Error represents a non-2xx exchange response
type Error struct {
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("exchange: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("exchange: %d %s", e.StatusCode, e.Detail)
}

// newError extracts the detail from {"detail": ...} or {"error": ...} bodies.
// Validation details that are not plain strings are kept raw.
func newError(statusCode int, body []byte) *Error {
	ret := &Error{StatusCode: statusCode, Body: body}
	if !gjson.ValidBytes(body) {
		return ret
	}
	for _, key := range []string{"detail", "error"} {
		value := gjson.GetBytes(body, key)
		if !value.Exists() {
			continue
		}
		if value.Type == gjson.String {
			ret.Detail = value.Str
		} else {
			ret.Detail = value.Raw
		}
		break
	}
	return ret
}

// StatusCode returns the exchange status of err, or 0 when err is not an *Error
func StatusCode(err error) int {
	var exchangeErr *Error
	if errors.As(err, &exchangeErr) {
		return exchangeErr.StatusCode
	}
	return 0
}
