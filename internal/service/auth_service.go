package service

import (
	"context"
	"crypto/subtle"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util"
)

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z]+(?: [A-Za-z]+)*$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const minPasswordLength = 6

// Session bundles the issued token with its expiry.
type Session struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// AuthService coordinates signup, login and session lifecycle for both
// reporters and the system admin.
type AuthService struct {
	users      repository.UserRepository
	sessions   auth.SessionStore
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	sessionTTL time.Duration
	adminUser  string
	adminPass  string
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	SessionStore auth.SessionStore
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionStore,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		sessionTTL: cfg.Auth.SessionTTL(),
		adminUser:  cfg.Admin.Username,
		adminPass:  cfg.Admin.Password,
	}
}

// Signup creates a reporter account and starts a session for it.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, *Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("Name, email and password are required", nil)
	}
	if !namePattern.MatchString(name) {
		return nil, nil, apperrors.NewValidationError("Name must contain only letters and spaces", map[string]any{"field": "name"})
	}
	if !emailPattern.MatchString(email) {
		return nil, nil, apperrors.NewValidationError("Please enter a valid email", map[string]any{"field": "email"})
	}
	if len(password) < minPasswordLength {
		return nil, nil, apperrors.NewValidationError("Password must be at least 6 characters", map[string]any{"field": "password"})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewValidationError("Email already registered", map[string]any{"field": "email"})
	} else if err != pgx.ErrNoRows {
		return nil, nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventUserRegistered,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &user.ID},
		Payload: events.UserRegisteredPayload{
			UserID: user.ID,
			Email:  user.Email,
		},
	})

	session, err := s.startSession(ctx, domain.SubjectTypeUser, domain.SessionClaims{UserID: user.ID})
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login authenticates a reporter. Failures collapse to a single generic
// message so the response never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("Email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	session, err := s.startSession(ctx, domain.SubjectTypeUser, domain.SessionClaims{UserID: user.ID})
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// AdminLogin authenticates the configured system admin credential. The admin
// is a distinct principal, never looked up in the users table.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	if !userOK || !passOK {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.startSession(ctx, domain.SubjectTypeAdmin, domain.SessionClaims{IsAdmin: true})
}

// Logout revokes the session record. Deleting an absent session is not an
// error, so repeated logouts succeed.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) startSession(ctx context.Context, subject domain.SubjectType, claims domain.SessionClaims) (*Session, error) {
	token, sessionID, expiresAt, err := s.tokenMgr.GenerateToken(subject)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.sessions.Save(ctx, sessionID, claims, s.sessionTTL); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Session{Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
