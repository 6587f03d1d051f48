package transport

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/viant/exchange/client/auth/session"
	"github.com/viant/exchange/client/auth/store"
)

type Option func(*RoundTripper)

// WithStore sets the credential store; ignored when WithSession is used.
func WithStore(store store.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithSession sets the session manager, its store becomes the credential store.
func WithSession(manager *session.Manager) Option {
	return func(t *RoundTripper) {
		t.session = manager
	}
}

// WithTransport sets the inner round tripper used for every outgoing call.
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithRefreshURL sets the refresh endpoint used by the default refresher.
func WithRefreshURL(URL string) Option {
	return func(t *RoundTripper) {
		t.refreshURL = URL
	}
}

// WithRefresher replaces the refresh procedure.
func WithRefresher(refresher Refresher) Option {
	return func(t *RoundTripper) {
		t.refresher = refresher
	}
}

// WithRefreshCoalescing collapses concurrent refreshes that share one refresh
// credential into a single call. Off by default: every expired call refreshes
// on its own, which a server invalidating refresh credentials after first use
// turns into spurious session terminations. Uncoalesced refreshes also race
// with each other's termination: a refresh finishing after a sibling ended the
// session stores a lone access credential, which later calls still send.
// When on, the shared refresh is not cancelled by any one caller.
func WithRefreshCoalescing(enabled bool) Option {
	return func(t *RoundTripper) {
		t.coalesce = enabled
	}
}

// WithLogger sets logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(t *RoundTripper) {
		t.log = log
	}
}
