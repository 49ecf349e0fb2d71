package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/badgeboard/badgeboard-backend/internal/data/repos"
	"github.com/badgeboard/badgeboard-backend/internal/domain"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

// AuthChecker verifies intranet credentials against the corporate identity
// provider. Implementations must return an error for bad credentials.
type AuthChecker interface {
	Check(ctx context.Context, username, password string) error
}

// allowAllChecker accepts any non-empty credentials. It stands in when no
// identity provider endpoint is configured.
type allowAllChecker struct{}

func NewAllowAllChecker() AuthChecker { return allowAllChecker{} }

func (allowAllChecker) Check(_ context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperr.Unauthorized("invalid credentials")
	}
	return nil
}

type LoginResult struct {
	Token      string `json:"token"`
	UserID     string `json:"userId"`
	IntranetID string `json:"intranetID"`
	Name       string `json:"name"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, viewer *domain.User) error
	// Authenticate resolves a bearer token to the user it was issued to.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type authClaims struct {
	IntranetID string `json:"intranetID"`
	jwt.RegisteredClaims
}

type authService struct {
	users    repos.UserRepo
	checker  AuthChecker
	secret   []byte
	tokenTTL time.Duration
	log      *logger.Logger
}

func NewAuthService(users repos.UserRepo, checker AuthChecker, secret string, tokenTTL time.Duration, baseLog *logger.Logger) AuthService {
	return &authService{
		users:    users,
		checker:  checker,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		log:      baseLog.With("service", "AuthService"),
	}
}

// Login checks credentials, signs a fresh token and stores it on the user
// document. Logging in again invalidates the previous token.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	if err := s.checker.Check(ctx, username, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByIntranetID(ctx, username)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := authClaims{
		IntranetID: user.IntranetID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user.Token = token
	user.TokenExpiresAt = expiresAt.UnixMilli()
	if _, err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", "intranetID", user.IntranetID)
	return &LoginResult{
		Token:      token,
		UserID:     user.ID,
		IntranetID: user.IntranetID,
		Name:       user.Name,
	}, nil
}

func (s *authService) Logout(ctx context.Context, viewer *domain.User) error {
	user, err := s.users.GetByID(ctx, viewer.ID)
	if err != nil {
		return err
	}
	user.Token = ""
	user.TokenExpiresAt = 0
	_, err = s.users.Save(ctx, user)
	return err
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperr.Unauthorized("missing token")
	}

	var claims authClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("invalid token")
	}
	// A token older than the stored one was superseded by a later login or
	// cleared by logout.
	if user.Token != token {
		return nil, apperr.Unauthorized("token revoked")
	}
	if user.TokenExpiresAt > 0 && user.TokenExpiresAt <= time.Now().UnixMilli() {
		return nil, apperr.Unauthorized("token expired")
	}
	return user, nil
}
