// Package store defines the credential store used by the authenticated request
// gateway in the sibling `transport` package.
//
// A store holds exactly two named string entries, the access and the refresh
// credential. It has no network behaviour and no cross-call transactions:
// writes are last-write-wins and sequencing is the gateway's job.
//
// The in-memory implementation suits tests and short-lived processes. FileStore
// (afs snapshot), DiskStore (one file per entry in a profile directory),
// RedisStore and SecretStore (scy encrypted snapshot) survive restarts.
package store
