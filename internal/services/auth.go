package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/forumhive/forumhive-backend/internal/normalization"
	"github.com/forumhive/forumhive-backend/internal/platform/apierr"
	"github.com/forumhive/forumhive-backend/internal/platform/envutil"
	"github.com/forumhive/forumhive-backend/internal/platform/logger"
)

// AuthService authenticates the organizer console. Credentials come from the
// environment (ORGANIZER_EMAIL, ORGANIZER_PASSWORD_HASH); there is no user
// table behind this surface.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(tokenString string) (string, error)
	AccessTTL() time.Duration
}

type authService struct {
	log            *logger.Logger
	organizerEmail string
	passwordHash   string
	jwtSecret      []byte
	accessTTL      time.Duration
}

func NewAuthService(log *logger.Logger) (AuthService, error) {
	secret := envutil.Str("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	email := normalization.ParseInputString(envutil.Str("ORGANIZER_EMAIL", ""))
	hash := envutil.Str("ORGANIZER_PASSWORD_HASH", "")
	if email == "" || hash == "" {
		return nil, fmt.Errorf("ORGANIZER_EMAIL and ORGANIZER_PASSWORD_HASH are required")
	}
	ttl := time.Duration(envutil.Int("AUTH_ACCESS_TTL_MINUTES", 60)) * time.Minute
	return &authService{
		log:            log.With("service", "AuthService"),
		organizerEmail: email,
		passwordHash:   hash,
		jwtSecret:      []byte(secret),
		accessTTL:      ttl,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalization.ParseInputString(email)
	if email != s.organizerEmail {
		return "", apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid credentials"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid credentials"))
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) VerifyToken(tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("invalid token subject")
	}
	return sub, nil
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }
