package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/viant/exchange/client/auth/session"
	"github.com/viant/exchange/client/auth/store"
	"golang.org/x/sync/singleflight"
)

// ErrSessionTerminated is returned when a rejected access credential could not
// be refreshed. Both credentials have been erased and session listeners notified.
var ErrSessionTerminated = errors.New("session terminated: credential refresh failed")

var errNoCredential = errors.New("no credential")

// attempt bounds the retry: only a firstAttempt may refresh, and the replay
// always runs as a retryAttempt.
type attempt int

const (
	firstAttempt attempt = iota
	retryAttempt
)

// RoundTripper injects the stored access credential into every request and,
// on 401 Unauthorized, refreshes it and replays the original request once.
type RoundTripper struct {
	session    *session.Manager
	store      store.Store
	refresher  Refresher
	refreshURL string
	transport  http.RoundTripper
	coalesce   bool
	group      singleflight.Group
	log        logrus.FieldLogger
}

func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	switch {
	case ret.session != nil:
		ret.store = ret.session.Store()
	case ret.store != nil:
		ret.session = session.New(ret.store)
	default:
		ret.store = store.NewMemoryStore()
		ret.session = session.New(ret.store)
	}
	if ret.refresher == nil {
		if ret.refreshURL == "" {
			return nil, fmt.Errorf("refresh URL was empty")
		}
		ret.refresher = NewRefresher(ret.refreshURL, ret.store, ret.transport, ret.log)
	}
	if err := ret.session.Normalize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to normalize stored credentials: %w", err)
	}
	return ret, nil
}

func (r *RoundTripper) Store() store.Store {
	return r.store
}

func (r *RoundTripper) Session() *session.Manager {
	return r.session
}

// RoundTrip sends req with refresh-and-retry unless its context carries WithoutRetry.
func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if retryDisabled(req.Context()) {
		return r.send(req, retryAttempt)
	}
	return r.send(req, firstAttempt)
}

// Send issues req, refreshing the credential and retrying at most once on 401.
func (r *RoundTripper) Send(req *http.Request) (*http.Response, error) {
	return r.send(req, firstAttempt)
}

// SendOnce issues req with the stored credential and returns whatever comes back.
func (r *RoundTripper) SendOnce(req *http.Request) (*http.Response, error) {
	return r.send(req, retryAttempt)
}

func (r *RoundTripper) send(req *http.Request, at attempt) (*http.Response, error) {
	ctx := req.Context()
	body, err := replayable(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	// 1) Send with whatever access credential is stored, possibly none.
	accessToken, _ := r.store.Get(ctx, store.AccessToken)
	probe, err := clone(req, body, accessToken)
	if err != nil {
		return nil, err
	}
	resp, err := r.transport.RoundTrip(probe)
	if err != nil {
		return nil, err
	}

	// 2) Anything but a 401, or a request that may not retry, goes back untouched.
	if resp.StatusCode != http.StatusUnauthorized || at == retryAttempt {
		return resp, nil
	}
	resp.Body.Close()

	// 3) Refresh; on failure the session is over.
	log := r.log.WithField("url", req.URL.String())
	log.Debug("access credential rejected, refreshing")
	accessToken, ok := r.refresh(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			// the caller gave up; that says nothing about the refresh credential
			return nil, err
		}
		log.Warn("credential refresh failed, terminating session")
		if err := r.session.End(ctx, session.ReasonRefreshFailed); err != nil {
			log.WithError(err).Error("failed to end session")
		}
		return nil, ErrSessionTerminated
	}

	// 4) Replay the original request once with the new credential.
	retry, err := clone(req, body, accessToken)
	if err != nil {
		return nil, err
	}
	return r.transport.RoundTrip(retry)
}

func (r *RoundTripper) refresh(ctx context.Context) (string, bool) {
	if !r.coalesce {
		return r.refresher.Refresh(ctx)
	}
	// the shared refresh outlives any single caller; each caller waits on its own ctx
	key, _ := r.store.Get(ctx, store.RefreshToken)
	shared := context.WithoutCancel(ctx)
	result := r.group.DoChan(key, func() (interface{}, error) {
		accessToken, ok := r.refresher.Refresh(shared)
		if !ok {
			return "", errNoCredential
		}
		return accessToken, nil
	})
	select {
	case <-ctx.Done():
		return "", false
	case res := <-result:
		if res.Err != nil {
			return "", false
		}
		return res.Val.(string), true
	}
}
