// Package auth authenticates requests to the plan API: clients attach a
// bearer token (static or obtained through OAuth2 client credentials) and the
// server checks it with RequireBearer.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Authorizer decorates outgoing requests with credentials.
type Authorizer interface {
	SetAuthHeader(r *http.Request) error
}

// New returns the Authorizer matching conf, or nil when no credentials are
// configured.
func New(conf Conf) (Authorizer, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	switch {
	case conf.Token != "":
		return StaticToken(conf.Token), nil
	case conf.OAuth2():
		return NewClientCred(conf), nil
	}
	return nil, nil
}

// StaticToken sends a fixed bearer token.
type StaticToken string

func (s StaticToken) SetAuthHeader(r *http.Request) error {
	r.Header.Set("Authorization", "Bearer "+string(s))
	return nil
}

// ClientCred fetches and caches OAuth2 client-credentials tokens.
type ClientCred struct {
	mu    sync.Mutex
	conf  clientcredentials.Config
	token *oauth2.Token
}

func NewClientCred(conf Conf) *ClientCred {
	return &ClientCred{
		conf: conf.toOauth2Config(),
	}
}

// GetToken returns the cached access token while it is valid and fetches a
// new one otherwise.
func (c *ClientCred) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok, err := c.valid(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (c *ClientCred) valid(ctx context.Context) (*oauth2.Token, error) {
	if c.token != nil && c.token.Valid() {
		return c.token, nil
	}
	return c.fetch(ctx)
}

func (c *ClientCred) fetch(ctx context.Context) (*oauth2.Token, error) {
	tok, err := c.conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	c.token = tok
	return tok, nil
}

// ForceRefresh discards the cached token, for example after the server
// answered 401.
func (c *ClientCred) ForceRefresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tok, err := c.valid(r.Context())
	if err != nil {
		return err
	}
	tok.SetAuthHeader(r)
	return nil
}
