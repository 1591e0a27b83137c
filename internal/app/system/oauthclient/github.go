// internal/app/system/oauthclient/github.go
package oauthclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

type githubClient struct {
	conf    *oauth2.Config
	apiBase string
}

func newGitHub(cfg Config) *githubClient {
	return &githubClient{
		conf: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  RedirectURL("github", cfg.BaseURL),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: "https://api.github.com",
	}
}

func (c *githubClient) Name() string { return "github" }

func (c *githubClient) AuthorizeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// githubUser is the subset of the /user response we consume.
type githubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (c *githubClient) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github code exchange: %w", err)
	}

	httpClient := c.conf.Client(ctx, token)

	var u githubUser
	if err := getJSON(ctx, httpClient, c.apiBase+"/user", &u); err != nil {
		return nil, fmt.Errorf("github user profile: %w", err)
	}

	email := u.Email
	if email == "" {
		// The profile email is hidden; ask the emails endpoint for the
		// primary verified address.
		var emails []githubEmail
		if err := getJSON(ctx, httpClient, c.apiBase+"/user/emails", &emails); err != nil {
			return nil, fmt.Errorf("github user emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, fmt.Errorf("github profile has no usable email")
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}

	return &Identity{
		Provider: "github",
		Email:    email,
		Name:     name,
		Handle:   u.Login,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
