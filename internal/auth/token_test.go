package auth

import (
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, ttl time.Duration) *TokenIssuer {
	t.Helper()
	ti, err := NewTokenIssuer("test-secret", ttl)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return ti
}

func TestTokenRoundTrip(t *testing.T) {
	ti := newTestIssuer(t, time.Hour)

	token, expiresAt, err := ti.Generate("user-1", RoleSupportAgent)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	identity, err := ti.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if identity.UserID != "user-1" {
		t.Fatalf("unexpected subject: %s", identity.UserID)
	}
	if identity.Role != RoleSupportAgent {
		t.Fatalf("unexpected role: %s", identity.Role)
	}
}

func TestTokenWithoutRole(t *testing.T) {
	ti := newTestIssuer(t, time.Hour)

	token, _, err := ti.Generate("user-2", RoleNone)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	identity, err := ti.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if identity.Role != RoleNone {
		t.Fatalf("expected no role, got %q", identity.Role)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	ti := newTestIssuer(t, time.Hour)

	issued := time.Now().Add(-2 * time.Hour)
	ti.now = func() time.Time { return issued }
	token, _, err := ti.Generate("user-3", RoleSubAdmin)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	ti.now = time.Now
	if _, err := ti.ParseAndValidate(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	ti := newTestIssuer(t, time.Hour)
	other := newTestIssuer(t, time.Hour)
	other.secret = []byte("different-secret")

	token, _, err := other.Generate("user-4", RoleSuperAdmin)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := ti.ParseAndValidate(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenWithUnknownRoleRejected(t *testing.T) {
	ti := newTestIssuer(t, time.Hour)

	token, _, err := ti.Generate("user-5", Role("owner"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := ti.ParseAndValidate(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	ti := newTestIssuer(t, time.Hour)
	for _, raw := range []string{"", "   ", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := ti.ParseAndValidate(raw); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", raw, err)
		}
	}
}
