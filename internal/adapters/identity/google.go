// Package identity implements sign-in against Google's OAuth2 endpoints.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// APITimeout bounds the code exchange and the userinfo call.
const APITimeout = 10 * time.Second

// ErrUnverifiedEmail is returned when Google reports the address as unverified.
var ErrUnverifiedEmail = errors.New("email address is not verified")

// GoogleProvider implements ports.IdentityProvider.
type GoogleProvider struct {
	oauthConfig *oauth2.Config
	// apiEndpoint overrides the userinfo base URL; empty means Google's.
	apiEndpoint string
}

// NewGoogleProvider creates a provider for the configured OAuth client
func NewGoogleProvider(cfg config.AuthConfig) *GoogleProvider {
	return &GoogleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"openid",
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
		},
	}
}

// AuthCodeURL returns the consent page URL with a PKCE challenge
func (p *GoogleProvider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades the code for a token and reads the user's profile
func (p *GoogleProvider) Exchange(ctx context.Context, code, verifier string) (*ports.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	opts := []option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(ctx, p.oauthConfig.TokenSource(ctx, token))),
	}
	if p.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.apiEndpoint))
	}

	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return nil, ErrUnverifiedEmail
	}

	return &ports.Identity{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
