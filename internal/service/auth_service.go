package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/contact-service/internal/auth"
	"github.com/spec-kit/contact-service/internal/domain"
	"github.com/spec-kit/contact-service/internal/repository"
	apperrors "github.com/spec-kit/contact-service/pkg/util"
)

// AuthService coordinates the login flow.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokenMgr *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokenMgr: tokenMgr, logger: logger}
}

// Login authenticates a staff account and issues a session token. The
// rejection message never reveals whether the username or the password was
// wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Credenciales inválidas")
		}
		return nil, "", time.Time{}, apperrors.NewDependencyError("Error en el servidor", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Credenciales inválidas")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.ID, user.Username, user.Role, user.DisplayName)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	// Best-effort: a failed timestamp update must not fail the login.
	if err := s.users.UpdateLastAccess(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last access", zap.String("username", user.Username), zap.Error(err))
	}

	return user, token, expiresAt, nil
}

// GetUser loads a staff account by id, for token re-verification.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("Usuario no encontrado")
		}
		return nil, apperrors.NewDependencyError("Error en el servidor", err)
	}
	return user, nil
}
