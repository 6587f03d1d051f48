// Package transport implements the authenticated request gateway: an
// http.RoundTripper that attaches the stored access credential as a bearer
// header, and when the exchange answers `401 Unauthorized` refreshes the
// credential and replays the original request exactly once.
//
// When the refresh fails the gateway erases both credentials, notifies the
// session listeners and returns ErrSessionTerminated. Every other status code
// is returned to the caller untouched.
//
// Concurrent calls that expire together refresh independently unless
// WithRefreshCoalescing is enabled.
package transport
