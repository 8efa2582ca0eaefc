package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/config"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService handles sign-in through the identity provider and issues
// session tokens.
type AuthService struct {
	userRepo ports.UserRepository
	provider ports.IdentityProvider
	config   config.AuthConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, provider ports.IdentityProvider, cfg config.AuthConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		provider: provider,
		config:   cfg,
		logger:   logger.WithComponent("auth"),
		now:      time.Now,
	}
}

// BeginLogin prepares a redirect to the provider's consent page
func (s *AuthService) BeginLogin() (*ports.LoginRedirect, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	verifier := oauth2.GenerateVerifier()

	return &ports.LoginRedirect{
		URL:      s.provider.AuthCodeURL(state, verifier),
		State:    state,
		Verifier: verifier,
	}, nil
}

// CompleteLogin exchanges the authorization code, records the user and
// returns a signed session token.
func (s *AuthService) CompleteLogin(ctx context.Context, code, verifier string) (*ports.AuthResponse, error) {
	identity, err := s.provider.Exchange(ctx, code, verifier)
	if err != nil {
		s.logger.WithError(err).Warnw("Identity exchange failed")
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, fmt.Errorf("identity provider returned no email")
	}

	user, err := s.upsertUser(ctx, email, identity)
	if err != nil {
		return nil, err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Infow("User signed in successfully", "user_id", user.ID, "email", user.Email)

	return &ports.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.SessionTTL.Seconds()),
		User:        user,
	}, nil
}

// Logout ends a session. Tokens are stateless, so this only records it.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return entities.ErrNotAuthenticated
	}
	s.logger.WithUserID(userID).Infow("User logged out successfully")
	return nil
}

// CurrentUser returns the stored record of the signed-in user
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entities.User, error) {
	if userID == "" {
		return nil, entities.ErrNotAuthenticated
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, entities.NewGatewayError("get user", err)
	}
	return user, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SessionSecret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}

	var issuedAt, expiresAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &ports.Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) upsertUser(ctx context.Context, email string, identity *ports.Identity) (*entities.User, error) {
	id := entities.UserIDFromEmail(email)
	now := s.now().UTC()

	var image *string
	if identity.Picture != "" {
		picture := identity.Picture
		image = &picture
	}

	existing, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, entities.ErrUserNotFound) {
		user := &entities.User{
			ID:           id,
			Email:        email,
			Name:         identity.Name,
			ProfileImage: image,
			CreatedAt:    now,
			LastLoginAt:  &now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, entities.NewGatewayError("create user", err)
		}
		s.logger.Infow("User created", "user_id", id, "email", email)
		return user, nil
	}
	if err != nil {
		return nil, entities.NewGatewayError("get user", err)
	}

	if !strings.EqualFold(existing.Email, email) {
		// Two addresses derived the same ID. Left unresolved.
		s.logger.LogSecurityEvent("user_id_collision", id, "", map[string]interface{}{
			"stored_email": existing.Email,
			"login_email":  email,
		})
	}

	existing.MergeLogin(email, identity.Name, image, now)
	if err := s.userRepo.Update(ctx, existing); err != nil {
		return nil, entities.NewGatewayError("update user", err)
	}
	return existing, nil
}

func (s *AuthService) generateAccessToken(user *entities.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
