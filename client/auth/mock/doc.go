// Package mock provides an in-memory exchange service that facilitates testing
// of the client-side credential gateway and API client.
//
// It issues HS256 JWT access and refresh credentials, serves the login,
// refresh and registration endpoints and a handful of protected resources,
// and counts calls per path so tests can assert on refresh and retry counts.
package mock
