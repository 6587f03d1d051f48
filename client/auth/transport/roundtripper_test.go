package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/exchange/client/auth/session"
	"github.com/viant/exchange/client/auth/store"
)

// exchange is a scripted resource + refresh server recording every call.
type exchange struct {
	mu       sync.Mutex
	events   []string
	requests []*recordedRequest
	valid    string

	resource http.HandlerFunc
	refresh  http.HandlerFunc
	server   *httptest.Server
}

type recordedRequest struct {
	Method string
	Header http.Header
	Body   string
}

func newExchange(t *testing.T) *exchange {
	e := &exchange{valid: "fresh"}
	e.resource = e.defaultResource
	e.refresh = e.defaultRefresh
	e.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			e.refresh(w, r)
		default:
			e.resource(w, r)
		}
	}))
	t.Cleanup(e.server.Close)
	return e
}

func (e *exchange) record(r *http.Request, status int, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, status))
	if r.URL.Path != "/auth/refresh" {
		e.requests = append(e.requests, &recordedRequest{Method: r.Method, Header: r.Header.Clone(), Body: body})
	}
}

func (e *exchange) Events() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.events...)
}

func (e *exchange) count(event string) int {
	ret := 0
	for _, candidate := range e.Events() {
		if candidate == event {
			ret++
		}
	}
	return ret
}

func (e *exchange) defaultResource(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	if r.Header.Get("Authorization") != "Bearer "+e.valid {
		e.record(r, http.StatusUnauthorized, string(body))
		http.Error(w, `{"detail":"Invalid token"}`, http.StatusUnauthorized)
		return
	}
	e.record(r, http.StatusOK, string(body))
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (e *exchange) defaultRefresh(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&request)
	if request.RefreshToken != "r1" {
		e.record(r, http.StatusUnauthorized, "")
		http.Error(w, `{"detail":"Invalid refresh token"}`, http.StatusUnauthorized)
		return
	}
	e.record(r, http.StatusOK, "")
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"rotated","token_type":"bearer"}`))
}

func (e *exchange) URL(path string) string {
	return e.server.URL + path
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newGateway(t *testing.T, e *exchange, s store.Store, options ...Option) *RoundTripper {
	options = append([]Option{
		WithStore(s),
		WithRefreshURL(e.URL("/auth/refresh")),
		WithLogger(quietLogger()),
	}, options...)
	rt, err := New(options...)
	require.NoError(t, err)
	return rt
}

func pairStore(access, refresh string) store.Store {
	return store.NewMemoryStore(store.WithPair(&store.Pair{AccessToken: access, RefreshToken: refresh}))
}

func TestRoundTripper_Scenarios(t *testing.T) {
	ctx := context.Background()

	var testCases = []struct {
		description  string
		store        func() store.Store
		expectEvents []string
		expectStatus int
		expectErr    error
		expectPair   *store.Pair
		expectEnded  int
		expectHeader string
	}{
		{
			description:  "valid credential: single call, store unchanged",
			store:        func() store.Store { return pairStore("fresh", "r1") },
			expectEvents: []string{"GET /resource 200"},
			expectStatus: http.StatusOK,
			expectPair:   &store.Pair{AccessToken: "fresh", RefreshToken: "r1"},
			expectHeader: "Bearer fresh",
		},
		{
			description:  "stale access, valid refresh: refresh then one retry",
			store:        func() store.Store { return pairStore("stale", "r1") },
			expectEvents: []string{"GET /resource 401", "POST /auth/refresh 200", "GET /resource 200"},
			expectStatus: http.StatusOK,
			expectPair:   &store.Pair{AccessToken: "fresh", RefreshToken: "r1"},
			expectHeader: "Bearer fresh",
		},
		{
			description:  "stale access, invalid refresh: session terminated",
			store:        func() store.Store { return pairStore("stale", "revoked") },
			expectEvents: []string{"GET /resource 401", "POST /auth/refresh 401"},
			expectErr:    ErrSessionTerminated,
			expectEnded:  1,
			expectHeader: "Bearer stale",
		},
		{
			description:  "no credentials: unauthenticated call, refresh fails without network",
			store:        func() store.Store { return store.NewMemoryStore() },
			expectEvents: []string{"GET /resource 401"},
			expectErr:    ErrSessionTerminated,
			expectEnded:  1,
			expectHeader: "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			e := newExchange(t)
			s := testCase.store()
			gateway := newGateway(t, e, s)
			var ended []session.Reason
			gateway.Session().Subscribe(func(_ context.Context, reason session.Reason) {
				ended = append(ended, reason)
			})

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL("/resource"), nil)
			require.NoError(t, err)
			resp, err := gateway.Send(req)
			if testCase.expectErr != nil {
				assert.ErrorIs(t, err, testCase.expectErr)
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				defer resp.Body.Close()
				assert.Equal(t, testCase.expectStatus, resp.StatusCode)
			}
			assert.Equal(t, testCase.expectEvents, e.Events())
			assert.Equal(t, testCase.expectHeader, e.requests[len(e.requests)-1].Header.Get("Authorization"))

			pair, ok := store.Load(ctx, s)
			if testCase.expectPair == nil {
				assert.False(t, ok)
				_, hasRefresh := s.Get(ctx, store.RefreshToken)
				assert.False(t, hasRefresh)
			} else {
				require.True(t, ok)
				assert.Equal(t, testCase.expectPair, pair)
			}
			assert.Len(t, ended, testCase.expectEnded)
			for _, reason := range ended {
				assert.Equal(t, session.ReasonRefreshFailed, reason)
			}
		})
	}
}

func TestRoundTripper_ThroughHTTPClient(t *testing.T) {
	e := newExchange(t)
	s := pairStore("stale", "r1")
	client := &http.Client{Transport: newGateway(t, e, s)}

	resp, err := client.Get(e.URL("/resource"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s = pairStore("stale", "nope")
	client = &http.Client{Transport: newGateway(t, e, s)}
	_, err = client.Get(e.URL("/resource"))
	assert.ErrorIs(t, err, ErrSessionTerminated, "url.Error unwraps to the sentinel")
}

func TestRoundTripper_RetryBound(t *testing.T) {
	e := newExchange(t)
	e.valid = "never-accepted"
	gateway := newGateway(t, e, pairStore("stale", "r1"))

	req, _ := http.NewRequest(http.MethodGet, e.URL("/resource"), nil)
	resp, err := gateway.Send(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "the retried 401 is returned as-is")
	assert.Equal(t, []string{"GET /resource 401", "POST /auth/refresh 200", "GET /resource 401"}, e.Events())
}

func TestRoundTripper_ReplaysRequestUnchanged(t *testing.T) {
	e := newExchange(t)
	gateway := newGateway(t, e, pairStore("stale", "r1"))

	var testCases = []struct {
		description string
		body        func() io.Reader
	}{
		{description: "body with GetBody", body: func() io.Reader { return strings.NewReader(`{"fruit_id":1,"quantity":2}`) }},
		{description: "opaque body without GetBody", body: func() io.Reader {
			return io.NopCloser(strings.NewReader(`{"fruit_id":1,"quantity":2}`))
		}},
	}

	for _, testCase := range testCases {
		e.mu.Lock()
		e.requests = nil
		e.mu.Unlock()
		require.NoError(t, gateway.Store().Set(context.Background(), store.AccessToken, "stale"))

		req, err := http.NewRequest(http.MethodPost, e.URL("/resource"), testCase.body())
		require.NoError(t, err, testCase.description)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Trace", "abc")
		resp, err := gateway.Send(req)
		require.NoError(t, err, testCase.description)
		resp.Body.Close()

		require.Len(t, e.requests, 2, testCase.description)
		first, retried := e.requests[0], e.requests[1]
		assert.Equal(t, http.MethodPost, retried.Method, testCase.description)
		assert.Equal(t, first.Body, retried.Body, testCase.description)
		assert.Equal(t, `{"fruit_id":1,"quantity":2}`, retried.Body, testCase.description)
		assert.Equal(t, "abc", retried.Header.Get("X-Trace"), testCase.description)
		assert.Equal(t, "application/json", retried.Header.Get("Content-Type"), testCase.description)
		assert.Equal(t, "Bearer stale", first.Header.Get("Authorization"), testCase.description)
		assert.Equal(t, "Bearer fresh", retried.Header.Get("Authorization"), testCase.description)
		assert.Equal(t, "", req.Header.Get("Authorization"), "caller request is not mutated")
	}
}

func TestRoundTripper_PassesThroughOtherStatuses(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		e := newExchange(t)
		e.resource = func(w http.ResponseWriter, r *http.Request) {
			e.record(r, status, "")
			http.Error(w, `{"detail":"upstream"}`, status)
		}
		s := pairStore("fresh", "r1")
		gateway := newGateway(t, e, s)
		req, _ := http.NewRequest(http.MethodGet, e.URL("/resource"), nil)
		resp, err := gateway.Send(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode)
		assert.Contains(t, string(body), "upstream")
		assert.Equal(t, 0, e.count("POST /auth/refresh 200"))
		_, ok := store.Load(context.Background(), s)
		assert.True(t, ok)
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRoundTripper_NetworkFailure(t *testing.T) {
	failure := errors.New("connection reset")
	refresher := &countingRefresher{token: "fresh"}
	gateway, err := New(
		WithStore(pairStore("fresh", "r1")),
		WithRefresher(refresher),
		WithLogger(quietLogger()),
		WithTransport(roundTripperFunc(func(*http.Request) (*http.Response, error) { return nil, failure })),
	)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodGet, "http://exchange.invalid/resource", nil)
	_, err = gateway.Send(req)
	assert.ErrorIs(t, err, failure)
	assert.EqualValues(t, 0, refresher.calls.Load())
}

func TestRoundTripper_NoRetry(t *testing.T) {
	e := newExchange(t)
	gateway := newGateway(t, e, pairStore("stale", "r1"))

	req, _ := http.NewRequest(http.MethodGet, e.URL("/resource"), nil)
	resp, err := gateway.SendOnce(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ = http.NewRequestWithContext(WithoutRetry(context.Background()), http.MethodGet, e.URL("/resource"), nil)
	resp, err = (&http.Client{Transport: gateway}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, []string{"GET /resource 401", "GET /resource 401"}, e.Events())
	access, _ := gateway.Store().Get(context.Background(), store.AccessToken)
	assert.Equal(t, "stale", access)
}

func TestRoundTripper_Idempotent(t *testing.T) {
	e := newExchange(t)
	gateway := newGateway(t, e, pairStore("fresh", "r1"))
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, e.URL("/resource"), nil)
		resp, err := gateway.Send(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, []string{"GET /resource 200", "GET /resource 200"}, e.Events())
}

func TestNew(t *testing.T) {
	_, err := New(WithLogger(quietLogger()))
	assert.Error(t, err, "refresh URL is required without a refresher")

	s := store.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), store.RefreshToken, "orphan"))
	_, err = New(WithStore(s), WithRefreshURL("http://localhost/auth/refresh"))
	require.NoError(t, err)
	_, ok := s.Get(context.Background(), store.RefreshToken)
	assert.False(t, ok, "a refresh credential without access credential is dropped at construction")

	manager := session.New(pairStore("a", "r"))
	rt, err := New(WithSession(manager), WithStore(store.NewMemoryStore()), WithRefreshURL("http://localhost/auth/refresh"))
	require.NoError(t, err)
	assert.Same(t, manager, rt.Session())
	assert.Equal(t, manager.Store(), rt.Store())
}

type countingRefresher struct {
	calls atomic.Int32
	delay time.Duration
	token string
}

func (c *countingRefresher) Refresh(ctx context.Context) (string, bool) {
	c.calls.Add(1)
	select {
	case <-ctx.Done():
		return "", false
	case <-time.After(c.delay):
	}
	return c.token, c.token != ""
}

// expireTogether makes the first n stale requests wait for each other before
// answering 401, so all of them observe the expiry.
func expireTogether(e *exchange, n int) {
	var barrier sync.WaitGroup
	barrier.Add(n)
	e.resource = func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+e.valid {
			barrier.Done()
			barrier.Wait()
		}
		e.defaultResource(w, r)
	}
}

func sendConcurrently(gateway *RoundTripper, URL string, n int) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, URL, nil)
			resp, err := gateway.Send(req)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					err = fmt.Errorf("unexpected status %d", resp.StatusCode)
				}
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	return errs
}

func TestRoundTripper_ConcurrentExpiry(t *testing.T) {
	const callers = 10

	t.Run("uncoalesced: one refresh per expired call", func(t *testing.T) {
		e := newExchange(t)
		expireTogether(e, callers)
		gateway := newGateway(t, e, pairStore("stale", "r1"))
		errs := sendConcurrently(gateway, e.URL("/resource"), callers)
		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, callers, e.count("POST /auth/refresh 200"))
		assert.Equal(t, callers, e.count("GET /resource 200"))
	})

	t.Run("uncoalesced with single-use refresh credential: spurious termination", func(t *testing.T) {
		e := newExchange(t)
		expireTogether(e, callers)
		var used atomic.Bool
		e.refresh = func(w http.ResponseWriter, r *http.Request) {
			if used.Swap(true) {
				e.record(r, http.StatusUnauthorized, "")
				http.Error(w, `{"detail":"Invalid refresh token"}`, http.StatusUnauthorized)
				return
			}
			e.defaultRefresh(w, r)
		}
		gateway := newGateway(t, e, pairStore("stale", "r1"))
		errs := sendConcurrently(gateway, e.URL("/resource"), callers)
		terminated := 0
		for _, err := range errs {
			if errors.Is(err, ErrSessionTerminated) {
				terminated++
			}
		}
		assert.Equal(t, callers-1, terminated)
		assert.Equal(t, callers, e.count("POST /auth/refresh 200")+e.count("POST /auth/refresh 401"))
	})

	t.Run("coalesced: one refresh shared by all callers", func(t *testing.T) {
		e := newExchange(t)
		expireTogether(e, callers)
		refresher := &countingRefresher{token: "fresh", delay: 300 * time.Millisecond}
		gateway := newGateway(t, e, pairStore("stale", "r1"), WithRefresher(refresher), WithRefreshCoalescing(true))
		errs := sendConcurrently(gateway, e.URL("/resource"), callers)
		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.EqualValues(t, 1, refresher.calls.Load())
		assert.Equal(t, callers, e.count("GET /resource 200"))
	})

	t.Run("coalesced: a rejected refresh terminates every caller", func(t *testing.T) {
		e := newExchange(t)
		expireTogether(e, callers)
		refresher := &countingRefresher{delay: 300 * time.Millisecond}
		s := pairStore("stale", "r1")
		gateway := newGateway(t, e, s, WithRefresher(refresher), WithRefreshCoalescing(true))
		errs := sendConcurrently(gateway, e.URL("/resource"), callers)
		for _, err := range errs {
			assert.ErrorIs(t, err, ErrSessionTerminated)
		}
		assert.EqualValues(t, 1, refresher.calls.Load())
		_, ok := s.Get(context.Background(), store.RefreshToken)
		assert.False(t, ok)
		assert.Equal(t, 0, e.count("GET /resource 200"))
	})

	t.Run("coalesced: a cancelled caller leaves the session to the others", func(t *testing.T) {
		e := newExchange(t)
		expireTogether(e, 2)
		refresher := &countingRefresher{token: "fresh", delay: 300 * time.Millisecond}
		s := pairStore("stale", "r1")
		gateway := newGateway(t, e, s, WithRefresher(refresher), WithRefreshCoalescing(true))

		cancelled, cancel := context.WithCancel(context.Background())
		defer cancel()
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i, ctx := range []context.Context{cancelled, context.Background()} {
			wg.Add(1)
			go func(i int, ctx context.Context) {
				defer wg.Done()
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, e.URL("/resource"), nil)
				resp, err := gateway.Send(req)
				if err == nil {
					resp.Body.Close()
				}
				errs[i] = err
			}(i, ctx)
		}
		time.Sleep(100 * time.Millisecond)
		cancel()
		wg.Wait()

		assert.ErrorIs(t, errs[0], context.Canceled)
		assert.NotErrorIs(t, errs[0], ErrSessionTerminated)
		assert.NoError(t, errs[1])
		assert.EqualValues(t, 1, refresher.calls.Load())
		refreshToken, ok := s.Get(context.Background(), store.RefreshToken)
		assert.True(t, ok)
		assert.Equal(t, "r1", refreshToken)
		assert.Equal(t, session.Authenticated, gateway.Session().State(context.Background()))
	})
}

// lateRefresher rejects the first refresh and lets later ones succeed after a delay.
type lateRefresher struct {
	store store.Store
	calls atomic.Int32
	delay time.Duration
}

func (l *lateRefresher) Refresh(ctx context.Context) (string, bool) {
	if l.calls.Add(1) == 1 {
		return "", false
	}
	time.Sleep(l.delay)
	_ = l.store.Set(ctx, store.AccessToken, "fresh")
	return "fresh", true
}

func TestRoundTripper_UncoalescedRefreshAfterTermination(t *testing.T) {
	ctx := context.Background()
	e := newExchange(t)
	expireTogether(e, 2)
	s := pairStore("stale", "r1")
	refresher := &lateRefresher{store: s, delay: 200 * time.Millisecond}
	gateway := newGateway(t, e, s, WithRefresher(refresher))

	errs := sendConcurrently(gateway, e.URL("/resource"), 2)
	terminated := 0
	for _, err := range errs {
		if errors.Is(err, ErrSessionTerminated) {
			terminated++
			continue
		}
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, terminated)

	accessToken, ok := s.Get(ctx, store.AccessToken)
	assert.True(t, ok, "the late refresh stores a lone access credential")
	assert.Equal(t, "fresh", accessToken)
	_, ok = s.Get(ctx, store.RefreshToken)
	assert.False(t, ok)
	assert.Equal(t, session.Anonymous, gateway.Session().State(ctx))
}

func TestRoundTripper_CancelledDuringRefresh(t *testing.T) {
	e := newExchange(t)
	refresher := &countingRefresher{token: "fresh", delay: time.Second}
	s := pairStore("stale", "r1")
	gateway := newGateway(t, e, s, WithRefresher(refresher))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, e.URL("/resource"), nil)
	_, err := gateway.Send(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, ok := s.Get(context.Background(), store.RefreshToken)
	assert.True(t, ok, "a caller timing out does not erase the refresh credential")
}
