package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// resolveUser loads the caller named by a verified identity. Deactivated
// accounts are rejected even while their token is still valid.
func resolveUser(ctx context.Context, users repository.UserRepository, logger *zap.Logger, identity domain.Identity, notFound string) (*domain.User, error) {
	if identity.Email == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	user, err := users.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(notFound, nil)
		}
		logger.Error("resolve caller failed", zap.String("email", identity.Email), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorized("User is not active.")
	}
	return user, nil
}

// validID reports whether id can be used as a primary key lookup.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
