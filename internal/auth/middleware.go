package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

const principalKey = "auth_principal"

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	SessionID   string
	User        *domain.User
}

// IsAdmin reports whether the principal is the system admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.SubjectType == domain.SubjectTypeAdmin
}

// AuthMiddleware resolves session tokens into principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionStore
	users    repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionStore, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	if principal == nil {
		return apperrors.NewUnauthorized("login required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional resolves a principal when a session is present but lets the
// request through anonymously otherwise.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err == nil && principal != nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx) (*Principal, error) {
	tokenStr := c.Cookies(SessionCookie)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenStr = parts[1]
		}
	}
	if tokenStr == "" {
		return nil, nil
	}

	tokenClaims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session token")
	}

	claims, err := m.sessions.Get(c.Context(), tokenClaims.ID)
	if err == ErrSessionNotFound {
		return nil, apperrors.NewUnauthorized("session expired")
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	principal := &Principal{SubjectType: tokenClaims.Subject, SessionID: tokenClaims.ID}

	switch tokenClaims.Subject {
	case domain.SubjectTypeUser:
		if claims.IsAdmin || claims.UserID == "" {
			return nil, apperrors.NewUnauthorized("invalid session")
		}
		user, err := m.users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewUnauthorized("user not found")
			}
			return nil, apperrors.MapError(err)
		}
		principal.User = user
	case domain.SubjectTypeAdmin:
		if !claims.IsAdmin {
			return nil, apperrors.NewUnauthorized("invalid session")
		}
	default:
		return nil, apperrors.NewUnauthorized("unknown subject")
	}

	return principal, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
