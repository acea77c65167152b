package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and stores the caller identity.
// The role in the stored identity is the one currently on the account, not
// the one the token was issued with.
type AuthMiddleware struct {
	tokens   *TokenManager
	denylist repository.TokenDenylist
	users    UserLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, denylist repository.TokenDenylist, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.denylist != nil && identity.TokenID != "" {
		revoked, err := m.denylist.IsRevoked(c.UserContext(), identity.TokenID)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token has been revoked")
		}
	}

	if m.users != nil {
		user, err := m.users.GetByEmail(c.UserContext(), identity.Email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("User not found.")
			}
			return apperrors.NewInternalError(err)
		}
		if !user.IsActive {
			return apperrors.NewUnauthorized("User is not active.")
		}
		identity.Role = user.Role
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// RequireCapability rejects callers whose role lacks any of the capabilities.
func RequireCapability(policy *Policy, capabilities ...Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, capability := range capabilities {
			if policy.Allows(identity.Role, capability) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
