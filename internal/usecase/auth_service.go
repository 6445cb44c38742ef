package usecase

import (
	"context"
	"crypto/subtle"

	"github.com/cockroachdb/errors"

	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/token"
)

type AuthConfig struct {
	AdminUsername string
	AdminPassword string
}

// AuthService authenticates the single admin account and issues the
// bearer tokens that gate the admin surface.
type AuthService struct {
	tokens *token.Manager
	cfg    AuthConfig
	logger *logging.Logger
}

func NewAuthService(tokens *token.Manager, cfg AuthConfig, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuthService{tokens: tokens, cfg: cfg, logger: logger}
}

// Login exchanges admin credentials for a signed token. Both fields are
// compared in constant time so a mismatch reveals nothing about which
// one was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		s.logger.WarnContext(ctx, "admin login rejected", "username", username)
		return "", errors.Wrap(ErrUnauthorized, "invalid credentials")
	}

	signed, err := s.tokens.Issue(username)
	if err != nil {
		return "", errors.Wrap(err, "issue token")
	}
	s.logger.InfoContext(ctx, "admin login accepted", "username", username)

	return signed, nil
}

// Verify checks a bearer token and returns the subject it was issued
// for.
func (s *AuthService) Verify(ctx context.Context, signed string) (string, error) {
	_, span := startUsecaseSpan(ctx, "usecase.AuthService.Verify")
	defer span.End()

	subject, err := s.tokens.Verify(signed)
	if err != nil {
		return "", errors.Wrap(ErrUnauthorized, "invalid or expired token")
	}

	return subject, nil
}
