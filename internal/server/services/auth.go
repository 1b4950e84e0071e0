// Package services contains server-side business logic. This file implements
// AuthService: login, logout and the per-request authentication gate.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/server/auth"
	"github.com/dmitrijs2005/contactform/internal/server/config"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/repomanager"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService issues, revokes and checks session tokens.
type AuthService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	now                   func() time.Time
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		now:                   time.Now,
	}
}

// Authorize resolves token to its user. Checks run in order and stop at the
// first failure: missing token, bad or expired token, revoked token and
// unknown user are common.ErrorUnauthenticated; a role outside roles is
// common.ErrorForbidden. No roles means any authenticated user passes.
func (s *AuthService) Authorize(ctx context.Context, token string, roles ...models.Role) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthenticated
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthenticated
	}

	revoked, err := s.repomanager.Revocations(s.db).Contains(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error checking revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrorUnauthenticated
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return nil, common.ErrorForbidden
	}

	return user, nil
}

// Login checks the password and mints a session token.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, common.NewValidationError("username is required")
	}
	if password == "" {
		return nil, common.NewValidationError("password is required")
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownUsername
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrWrongPassword
	}

	token, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	if err := attachPhoto(ctx, s.repomanager.Photos(s.db), user); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Logout revokes token until its own expiry. Any non-empty token is
// accepted, so logging out twice or with a stale token still succeeds.
// Tokens that fail verification are already rejected by Authorize and are
// not recorded.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrorUnauthenticated
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}

	if err := s.repomanager.Revocations(s.db).Add(ctx, token, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}

	return nil
}

// CheckLogin returns the user behind a valid token, whatever the role.
func (s *AuthService) CheckLogin(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := attachPhoto(ctx, s.repomanager.Photos(s.db), user); err != nil {
		return nil, err
	}

	return user, nil
}

// PruneRevocations drops ledger entries for tokens that already expired.
func (s *AuthService) PruneRevocations(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Revocations(s.db).Prune(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error pruning revocations: %w", err)
	}
	return n, nil
}
