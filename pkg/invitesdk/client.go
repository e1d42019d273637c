package invitesdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to the invites service. Issuer and admin endpoints need
// AccessToken; the lookup endpoints and health checks do not.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AccessToken is a JWT from the auth service, sent as a Bearer token.
	AccessToken string
}

// NewClient creates a client without credentials.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of c that authenticates with accessToken.
func (c *Client) WithToken(accessToken string) *Client {
	cp := *c
	cp.AccessToken = accessToken
	return &cp
}
