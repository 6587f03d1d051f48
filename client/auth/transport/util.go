package transport

import (
	"bytes"
	"io"
	"net/http"
)

type bodyFactory func() (io.ReadCloser, error)

// replayable captures the request body once so that the original and the
// retried request carry byte-identical payloads. The caller's body is closed.
func replayable(r *http.Request) (bodyFactory, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	if r.GetBody != nil {
		return r.GetBody, nil
	}
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}, nil
}

// clone copies r with a fresh body and, when accessToken is set, the bearer header.
// Every other header, the method and the URL are kept as the caller set them.
func clone(r *http.Request, body bodyFactory, accessToken string) (*http.Request, error) {
	cloned := r.Clone(r.Context())
	if body != nil {
		rc, err := body()
		if err != nil {
			return nil, err
		}
		cloned.Body = rc
		cloned.GetBody = body
	}
	if accessToken != "" {
		cloned.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return cloned, nil
}
