package auth

import (
	"context"
	"testing"

	"github.com/spendlog/spendlog/internal/model"
)

func TestGenerateSessionToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken failed: %v", err)
		}
		if err := ValidateSessionToken(token); err != nil {
			t.Fatalf("generated token %q failed validation: %v", token, err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestValidateSessionToken_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"too short", "abc"},
		{"not base64", "!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!"},
		{"padded", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := ValidateSessionToken(tt.token); err != ErrInvalidToken {
				t.Errorf("ValidateSessionToken(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestTokenDigest(t *testing.T) {
	t.Parallel()

	a := TokenDigest("token-one")
	if a != TokenDigest("token-one") {
		t.Error("digest should be deterministic")
	}
	if a == TokenDigest("token-two") {
		t.Error("different tokens should have different digests")
	}
	if len(a) != 64 {
		t.Errorf("digest should be 64 hex chars, got %d", len(a))
	}
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if PrincipalFromContext(ctx) != nil {
		t.Error("expected nil principal on empty context")
	}

	p := &model.Principal{UserID: 42, Name: "Ada", Email: "ada@example.com"}
	ctx = ContextWithPrincipal(ctx, p)

	if got := PrincipalFromContext(ctx); got != p {
		t.Errorf("PrincipalFromContext = %v, want %v", got, p)
	}
}

func TestMustPrincipalFromContext_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic without principal")
		}
	}()
	MustPrincipalFromContext(context.Background())
}
