package client

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/viant/exchange/client/auth/store"
	"github.com/viant/exchange/client/auth/transport"
)

// Option represents option
type Option func(c *Client)

// WithStore sets the credential store, memory by default
func WithStore(s store.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithGateway uses a preconfigured gateway instead of building one
func WithGateway(gateway *transport.RoundTripper) Option {
	return func(c *Client) {
		c.gateway = gateway
	}
}

// WithTransport sets the inner round tripper used for all network calls
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithRefreshCoalescing shares one refresh between concurrently expiring calls
func WithRefreshCoalescing(enabled bool) Option {
	return func(c *Client) {
		c.coalesce = enabled
	}
}

// WithLogger with logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}
