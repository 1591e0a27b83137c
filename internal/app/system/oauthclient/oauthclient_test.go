package oauthclient

import (
	"net/url"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		BaseURL:            "http://0.0.0.0:8080",
		GitHubClientID:     "gh-id",
		GitHubClientSecret: "gh-secret",
		GoogleClientID:     "goog-id",
		GoogleClientSecret: "goog-secret",
	}
}

func TestService_KnownProviders(t *testing.T) {
	for _, p := range []string{"github", "google"} {
		c, err := Service(p, testConfig())
		if err != nil {
			t.Fatalf("Service(%q) failed: %v", p, err)
		}
		if c.Name() != p {
			t.Errorf("Name() = %q, want %q", c.Name(), p)
		}
	}
}

func TestService_UnknownProvider(t *testing.T) {
	_, err := Service("facebook", testConfig())
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestRedirectURL_GoogleRewritesLoopback(t *testing.T) {
	got := RedirectURL("google", "http://0.0.0.0:8080")
	want := "http://127.0.0.1:8080/oauth/google"
	if got != want {
		t.Errorf("RedirectURL = %q, want %q", got, want)
	}
}

func TestRedirectURL_GitHubKeepsHost(t *testing.T) {
	got := RedirectURL("github", "http://0.0.0.0:8080")
	want := "http://0.0.0.0:8080/oauth/github"
	if got != want {
		t.Errorf("RedirectURL = %q, want %q", got, want)
	}
}

func TestRedirectURL_TrimsTrailingSlash(t *testing.T) {
	got := RedirectURL("github", "https://broadgauge.example/")
	want := "https://broadgauge.example/oauth/github"
	if got != want {
		t.Errorf("RedirectURL = %q, want %q", got, want)
	}
}

func TestAuthorizeURL_CarriesState(t *testing.T) {
	c, err := Service("github", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	raw := c.AuthorizeURL("/trainers/signup")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthorizeURL produced unparseable URL: %v", err)
	}
	q := u.Query()
	if q.Get("state") != "/trainers/signup" {
		t.Errorf("state = %q, want %q", q.Get("state"), "/trainers/signup")
	}
	if q.Get("client_id") != "gh-id" {
		t.Errorf("client_id = %q, want %q", q.Get("client_id"), "gh-id")
	}
	if !strings.Contains(q.Get("redirect_uri"), "/oauth/github") {
		t.Errorf("redirect_uri = %q missing callback path", q.Get("redirect_uri"))
	}
}
