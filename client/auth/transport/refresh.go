package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/viant/exchange/client/auth/store"
)

// Refresher exchanges the stored refresh credential for a new access credential.
// ok is false when no credential could be obtained, which is an expected
// outcome (expired or revoked refresh credential), not an error.
type Refresher interface {
	Refresh(ctx context.Context) (accessToken string, ok bool)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HTTPRefresher calls the remote refresh endpoint. Only the access credential
// is replaced, a refresh credential returned by the server is ignored.
type HTTPRefresher struct {
	URL       string
	store     store.Store
	transport http.RoundTripper
	log       logrus.FieldLogger
}

// NewRefresher creates a refresher posting to URL through transport
// (http.DefaultTransport when nil).
func NewRefresher(URL string, s store.Store, transport http.RoundTripper, log logrus.FieldLogger) *HTTPRefresher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPRefresher{URL: URL, store: s, transport: transport, log: log}
}

func (h *HTTPRefresher) Refresh(ctx context.Context) (string, bool) {
	refreshToken, ok := h.store.Get(ctx, store.RefreshToken)
	if !ok || refreshToken == "" {
		h.log.Debug("no refresh credential stored")
		return "", false
	}
	payload, err := json.Marshal(&refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		h.log.WithError(err).Debug("invalid refresh request")
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := (&http.Client{Transport: h.transport}).Do(req)
	if err != nil {
		h.log.WithError(err).Debug("refresh call failed")
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.WithField("status", resp.StatusCode).Debug("refresh rejected")
		return "", false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(body) {
		h.log.Debug("malformed refresh response")
		return "", false
	}
	accessToken := gjson.GetBytes(body, "access_token")
	if accessToken.Type != gjson.String || accessToken.Str == "" {
		h.log.Debug("refresh response without access_token")
		return "", false
	}
	// the caller retries with the token even if it could not be persisted
	if err = h.store.Set(ctx, store.AccessToken, accessToken.Str); err != nil {
		h.log.WithError(err).Warn("failed to persist refreshed access credential")
	}
	return accessToken.Str, true
}
