package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	furl "github.com/viant/afs/url"
	"github.com/viant/exchange/client/auth/session"
	"github.com/viant/exchange/client/auth/store"
	"github.com/viant/exchange/client/auth/transport"
)

const (
	tokenPath      = "/auth/token"
	refreshPath    = "/auth/refresh"
	registerPath   = "/auth/register"
	mePath         = "/auth/me"
	fruitsPath     = "/fruits"
	pricesPath     = "/prices"
	vendorsPath    = "/vendors"
	myVendorPath   = "/vendors/me"
	addFruitPath   = "/vendors/me/add-fruit"
	tradePath      = "/trade"
	contentTypeKey = "Content-Type"
	jsonType       = "application/json"
)

// Client calls the exchange API; protected resources go through the gateway.
type Client struct {
	baseURL   string
	store     store.Store
	transport http.RoundTripper
	coalesce  bool
	gateway   *transport.RoundTripper
	http      *http.Client // authenticated, through the gateway
	anonymous *http.Client // login and registration
	log       logrus.FieldLogger
}

// New creates a client for the exchange at baseURL
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL was empty")
	}
	ret := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: http.DefaultTransport,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.gateway == nil {
		gateway, err := transport.New(
			transport.WithStore(ret.store),
			transport.WithTransport(ret.transport),
			transport.WithRefreshURL(ret.endpoint(refreshPath)),
			transport.WithRefreshCoalescing(ret.coalesce),
			transport.WithLogger(ret.log),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gateway: %w", err)
		}
		ret.gateway = gateway
	}
	ret.store = ret.gateway.Store()
	ret.http = &http.Client{Transport: ret.gateway}
	ret.anonymous = &http.Client{Transport: ret.transport}
	return ret, nil
}

// Gateway returns the authenticated round tripper
func (c *Client) Gateway() *transport.RoundTripper {
	return c.gateway
}

// Session returns the session manager, subscribe to it to observe termination
func (c *Client) Session() *session.Manager {
	return c.gateway.Session()
}

// State reports whether a credential pair is stored
func (c *Client) State(ctx context.Context) session.State {
	return c.Session().State(ctx)
}

// Do sends an arbitrary request to path through the gateway; the caller owns the response
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set(contentTypeKey, jsonType)
	}
	return c.http.Do(req)
}

func (c *Client) endpoint(path string) string {
	return furl.Join(c.baseURL, strings.TrimLeft(path, "/"))
}

// send encodes payload as JSON, sends it with httpClient and decodes a 2xx body into R
func send[P any, R any](ctx context.Context, httpClient *http.Client, method, URL string, query url.Values, payload *P) (*R, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	if len(query) > 0 {
		URL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set(contentTypeKey, jsonType)
	}
	req.Header.Set("Accept", jsonType)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, unwrapURLError(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, data)
	}
	var result R
	if err = json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", result, err)
	}
	return &result, nil
}

// unwrapURLError strips the *url.Error added by http.Client so callers see
// gateway errors such as transport.ErrSessionTerminated directly.
func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok && urlErr.Err == transport.ErrSessionTerminated {
		return urlErr.Err
	}
	return err
}
