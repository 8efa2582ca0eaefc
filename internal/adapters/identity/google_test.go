package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
)

func newTestProvider(t *testing.T, userinfo string) (*GoogleProvider, *string) {
	t.Helper()
	var gotVerifier string

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotVerifier = r.PostForm.Get("code_verifier")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer at-1" {
			t.Errorf("authorization header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(userinfo))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := NewGoogleProvider(config.AuthConfig{
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "http://localhost/auth/google/callback",
	})
	p.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}
	p.apiEndpoint = srv.URL + "/"
	return p, &gotVerifier
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider(config.AuthConfig{GoogleClientID: "client", GoogleRedirectURL: "http://localhost/cb"})

	raw := p.AuthCodeURL("state-1", oauth2.GenerateVerifier())
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	q := u.Query()
	if q.Get("state") != "state-1" || q.Get("client_id") != "client" {
		t.Fatalf("unexpected query: %v", q)
	}
	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Fatalf("missing PKCE challenge: %v", q)
	}
	if !strings.Contains(q.Get("scope"), "openid") {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
}

func TestGoogleProvider_Exchange(t *testing.T) {
	p, gotVerifier := newTestProvider(t, `{"email":"ada@example.com","name":"Ada","picture":"https://example.com/ada.png","verified_email":true}`)

	id, err := p.Exchange(context.Background(), "code-1", "verifier-1")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if id.Email != "ada@example.com" || id.Name != "Ada" || id.Picture != "https://example.com/ada.png" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if *gotVerifier != "verifier-1" {
		t.Fatalf("code_verifier = %q", *gotVerifier)
	}
}

func TestGoogleProvider_UnverifiedEmail(t *testing.T) {
	p, _ := newTestProvider(t, `{"email":"ada@example.com","verified_email":false}`)

	if _, err := p.Exchange(context.Background(), "code-1", "verifier-1"); !errors.Is(err, ErrUnverifiedEmail) {
		t.Fatalf("expected ErrUnverifiedEmail, got %v", err)
	}
}
