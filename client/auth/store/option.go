package store

import "github.com/sirupsen/logrus"

// Option configures a persistent backend.
type Option func(*backend)

type backend struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger receiving backend read failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *backend) {
		b.log = log
	}
}

func newBackend(options []Option) backend {
	ret := backend{log: logrus.StandardLogger()}
	for _, opt := range options {
		opt(&ret)
	}
	return ret
}
