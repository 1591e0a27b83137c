// Package oauthclient exchanges provider authorization codes for
// verified identities. Providers are polymorphic over two capabilities:
// consent-URL construction and code exchange. Supported providers are
// github and google.
package oauthclient

import (
	"context"
	"fmt"
	"strings"
)

// Identity is the verified remote profile returned by a successful code
// exchange. Email is the field that matters for account binding; Handle
// carries the provider-specific login (GitHub only).
type Identity struct {
	Provider string
	Email    string
	Name     string
	Handle   string
}

// Config carries the per-provider OAuth application credentials and the
// site base URL used to build callback redirect URIs.
type Config struct {
	BaseURL string

	GitHubClientID     string
	GitHubClientSecret string

	GoogleClientID     string
	GoogleClientSecret string
}

// Client is one OAuth provider bound to this site's credentials.
type Client interface {
	// Name returns the provider key ("github" or "google").
	Name() string
	// AuthorizeURL builds the provider consent-screen URL. The opaque
	// state token is echoed back on the callback so the flow can resume
	// at the originating signup path.
	AuthorizeURL(state string) string
	// Exchange trades the callback code for the remote user profile.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// ErrUnknownProvider is returned by Service for unsupported providers.
var ErrUnknownProvider = fmt.Errorf("unknown oauth provider")

// Service returns the client for the named provider.
func Service(provider string, cfg Config) (Client, error) {
	switch provider {
	case "github":
		return newGitHub(cfg), nil
	case "google":
		return newGoogle(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// RedirectURL builds the callback URI for a provider. Google rejects
// the all-interfaces loopback address, so 0.0.0.0 is rewritten to the
// explicit loopback for that provider only.
func RedirectURL(provider, baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if provider == "google" {
		base = strings.Replace(base, "0.0.0.0", "127.0.0.1", 1)
	}
	return base + "/oauth/" + provider
}
