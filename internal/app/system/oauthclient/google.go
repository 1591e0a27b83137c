// internal/app/system/oauthclient/google.go
package oauthclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type googleClient struct {
	conf        *oauth2.Config
	userinfoURL string
}

func newGoogle(cfg Config) *googleClient {
	return &googleClient{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  RedirectURL("google", cfg.BaseURL),
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userinfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

func (c *googleClient) Name() string { return "google" }

func (c *googleClient) AuthorizeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// googleUserInfo is the subset of the userinfo response we consume.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (c *googleClient) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(c.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo: unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google userinfo decode: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("google profile has no usable email")
	}

	return &Identity{
		Provider: "google",
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}
