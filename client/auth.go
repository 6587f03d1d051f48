package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/viant/exchange/client/auth/session"
	"github.com/viant/exchange/client/auth/store"
	"github.com/viant/exchange/schema"
	"golang.org/x/oauth2"
)

var passwordRules = []*regexp.Regexp{
	regexp.MustCompile(`[a-z]`),
	regexp.MustCompile(`[A-Z]`),
	regexp.MustCompile(`\d`),
	regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`),
}

// ValidatePassword checks the exchange password rule
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	for _, rule := range passwordRules {
		if !rule.MatchString(password) {
			return ErrInvalidPassword
		}
	}
	return nil
}

func (c *Client) Register(ctx context.Context, username, password string) (*schema.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	credentials := &schema.Credentials{Username: username, Password: password}
	return send[schema.Credentials, schema.User](ctx, c.anonymous, http.MethodPost, c.endpoint(registerPath), nil, credentials)
}

// Login exchanges username and password for a credential pair (form encoded
// password grant) and stores it. A previous session is replaced.
func (c *Client) Login(ctx context.Context, username, password string) error {
	config := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.endpoint(tokenPath),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.anonymous)
	token, err := config.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return newError(retrieveErr.Response.StatusCode, retrieveErr.Body)
		}
		return fmt.Errorf("failed to login: %w", err)
	}
	pair := &store.Pair{AccessToken: token.AccessToken, RefreshToken: token.RefreshToken}
	if err = c.Session().Begin(ctx, pair); err != nil {
		return err
	}
	c.log.WithField("username", username).Debug("session started")
	return nil
}

// Logout erases both credentials and notifies session listeners
func (c *Client) Logout(ctx context.Context) error {
	return c.Session().End(ctx, session.ReasonLogout)
}

func (c *Client) Me(ctx context.Context) (*schema.User, error) {
	return send[any, schema.User](ctx, c.http, http.MethodGet, c.endpoint(mePath), nil, nil)
}
