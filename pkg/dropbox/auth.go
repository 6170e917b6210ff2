package dropbox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// AuthorizationURL builds the Dropbox OAuth2 authorization URL.
// The client id and redirect URI are inserted as configured, without escaping,
// so the URL matches what was registered in the Dropbox app console.
func (c *Client) AuthorizationURL() string {
	return fmt.Sprintf("%s/oauth2/authorize?client_id=%s&response_type=code&redirect_uri=%s",
		c.authorizeBase, c.creds.ClientID, c.creds.RedirectURI)
}

// ExchangeCode exchanges an authorization code for an access token and returns
// the token endpoint's raw response.
func (c *Client) ExchangeCode(ctx context.Context, code string) ([]byte, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	const endpoint = "/oauth2/token"

	form := url.Values{
		"code":         {code},
		"grant_type":   {"authorization_code"},
		"redirect_uri": {c.creds.RedirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating code exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)

	return c.do(req, "Token request failed", endpoint)
}
