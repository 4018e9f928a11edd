package auth

import (
	"errors"

	"golang.org/x/oauth2/clientcredentials"
)

// Conf holds the credentials a client uses to reach a protected plan server.
// Either a static Token or an OAuth2 client-credentials triple may be set.
type Conf struct {
	Token        string   `json:"token"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

// OAuth2 reports whether client-credentials settings are present.
func (c Conf) OAuth2() bool { return c.ClientID != "" || c.TokenURL != "" }

// Validate checks that at most one mode is configured and that the OAuth2
// settings are complete.
func (c Conf) Validate() error {
	if c.Token != "" && c.OAuth2() {
		return errors.New("auth: token and client credentials are mutually exclusive")
	}
	if c.OAuth2() && (c.ClientID == "" || c.ClientSecret == "" || c.TokenURL == "") {
		return errors.New("auth: client_id, client_secret and token_url are required together")
	}
	return nil
}

func (c *Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}
