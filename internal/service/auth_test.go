package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/metrics"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/testutil"
)

func newAuthService(t *testing.T) (*AuthService, *testutil.MemStore, *testutil.MemSessions, *metrics.InMemoryRecorder) {
	t.Helper()
	store := testutil.NewMemStore()
	sessions := testutil.NewMemSessions()
	recorder := metrics.NewInMemory()
	return NewAuthService(store, sessions, time.Hour, recorder, nil), store, sessions, recorder
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, store, _, _ := newAuthService(t)
	ctx := context.Background()

	input := RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "correct horse"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	input.Email = "  ANA@example.com "
	_, err := svc.Register(ctx, input)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if got := store.UserCount(); got != 1 {
		t.Fatalf("expected 1 user, got %d", got)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _, _, recorder := newAuthService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ben",
		Email:    "ben@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Fatal("password stored in plaintext")
	}
	ok, err := auth.VerifyPassword("hunter2hunter2", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
	if got := recorder.Snapshot().UsersRegistered; got != 1 {
		t.Fatalf("expected 1 registration recorded, got %d", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newAuthService(t)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing_name", RegisterInput{Email: "a@example.com", Password: "longenough"}},
		{"missing_email", RegisterInput{Name: "A", Password: "longenough"}},
		{"bad_email", RegisterInput{Name: "A", Email: "not-an-email", Password: "longenough"}},
		{"short_password", RegisterInput{Name: "A", Email: "a@example.com", Password: "short"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), test.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, sessions, recorder := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Cy", Email: "cy@example.com", Password: "right-password"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "cy@example.com", "wrong-password")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "right-password")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
	if sessions.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", sessions.Len())
	}
	if got := recorder.Snapshot().LoginsFailed; got != 2 {
		t.Fatalf("expected 2 failed logins, got %d", got)
	}
}

func TestLoginCorruptHashIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	store := testutil.NewMemStore()
	sessions := testutil.NewMemSessions()
	svc := NewAuthService(store, sessions, time.Hour, metrics.NewInMemory(), logger)
	ctx := context.Background()

	user := &model.User{Name: "Dee", Email: "dee@example.com", PasswordHash: "not-a-phc-string"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err := svc.Login(ctx, "dee@example.com", "whatever-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sessions.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", sessions.Len())
	}

	out := buf.String()
	if !strings.Contains(out, `"level":"ERROR"`) || !strings.Contains(out, "stored password hash is unreadable") {
		t.Fatalf("corrupt hash not logged at error level: %s", out)
	}
	if strings.Contains(out, "whatever-password") {
		t.Fatal("password leaked into log")
	}
}

func TestLoginWrongPasswordIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	svc := NewAuthService(testutil.NewMemStore(), testutil.NewMemSessions(), time.Hour, nil, slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Eli", Email: "eli@example.com", Password: "right-password"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "eli@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("ordinary bad password should not log, got %s", buf.String())
	}
}

func TestLoginAuthenticateLogout(t *testing.T) {
	svc, _, sessions, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Di", Email: "di@example.com", Password: "right-password"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(ctx, "DI@example.com", "right-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := auth.ValidateSessionToken(result.Token); err != nil {
		t.Fatalf("invalid token issued: %v", err)
	}
	if result.Session.UserID != user.ID {
		t.Fatalf("session user = %d, want %d", result.Session.UserID, user.ID)
	}

	principal, err := svc.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.UserID != user.ID || principal.Email != "di@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.SessionID != result.Session.ID {
		t.Fatalf("session id = %s, want %s", principal.SessionID, result.Session.ID)
	}

	if err := svc.Logout(ctx, result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.Len() != 0 {
		t.Fatalf("expected session removed, %d left", sessions.Len())
	}
	if _, err := svc.Authenticate(ctx, result.Token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	svc, store, sessions, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ed", Email: "ed@example.com", Password: "right-password"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := svc.Login(ctx, "ed@example.com", "right-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	t.Run("malformed_token", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "nope"); !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected ErrNoSession, got %v", err)
		}
	})

	t.Run("unknown_token", func(t *testing.T) {
		token, _ := auth.GenerateSessionToken()
		if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected ErrNoSession, got %v", err)
		}
	})

	t.Run("expired_session", func(t *testing.T) {
		sessions.SetNow(func() time.Time { return time.Now().Add(2 * time.Hour) })
		defer sessions.SetNow(time.Now)

		if _, err := svc.Authenticate(ctx, result.Token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected ErrNoSession, got %v", err)
		}
	})

	t.Run("deleted_user", func(t *testing.T) {
		again, err := svc.Login(ctx, "ed@example.com", "right-password")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		store.DeleteUser(user.ID)
		if _, err := svc.Authenticate(ctx, again.Token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected ErrNoSession, got %v", err)
		}
	})
}

func TestEmailExists(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Fi", Email: "fi@example.com", Password: "right-password"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		email string
		want  bool
	}{
		{"fi@example.com", true},
		{" FI@Example.com ", true},
		{"other@example.com", false},
		{"", false},
	}

	for _, test := range tests {
		got, err := svc.EmailExists(ctx, test.email)
		if err != nil {
			t.Fatalf("EmailExists(%q): %v", test.email, err)
		}
		if got != test.want {
			t.Errorf("EmailExists(%q) = %v, want %v", test.email, got, test.want)
		}
	}
}
