package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/metrics"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/repository"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SessionStore keeps server-side sessions keyed by token digest.
// GetSession returns (nil, nil) when no session exists.
type SessionStore interface {
	CreateSession(ctx context.Context, digest string, session *model.Session, ttl time.Duration) error
	GetSession(ctx context.Context, digest string) (*model.Session, error)
	DeleteSession(ctx context.Context, digest string) error
}

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	metrics    metrics.Recorder
	logger     *slog.Logger
	now        Clock
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions SessionStore, sessionTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		metrics:    recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// SessionTTL is how long a new session stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with a salted argon2id password hash.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	// The unique constraint still catches a concurrent registration.
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// EmailExists reports whether email is already registered.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	return s.users.EmailExists(ctx, email)
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token   string
	User    *model.User
	Session *model.Session
}

// Login verifies credentials and opens a session.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.VerifyDummy(password)
			s.metrics.IncLogin(metrics.LoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Callers only ever see ErrInvalidCredentials.
		s.logger.ErrorContext(ctx, "stored password hash is unreadable",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	if err != nil || !match {
		s.metrics.IncLogin(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:        ulid.Make().String(),
		UserID:    user.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessions.CreateSession(ctx, auth.TokenDigest(token), session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)

	return &LoginResult{Token: token, User: user, Session: session}, nil
}

// Logout destroys the session behind token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if auth.ValidateSessionToken(token) != nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, auth.TokenDigest(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to the logged-in principal.
// The user row is re-read on every call so the session is server-verified.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Principal, error) {
	if auth.ValidateSessionToken(token) != nil {
		return nil, ErrNoSession
	}

	session, err := s.sessions.GetSession(ctx, auth.TokenDigest(token))
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrNoSession
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return &model.Principal{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		SessionID: session.ID,
	}, nil
}
