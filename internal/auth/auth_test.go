package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/promptdeck/internal/apperr"
)

func testManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestIssueAndValidatePair(t *testing.T) {
	m := testManager()
	pair, err := m.IssuePair("admin")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty tokens")
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expiresIn = %d", pair.ExpiresIn)
	}

	claims, err := m.Validate(pair.AccessToken, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Validate access: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("username = %q", claims.Username)
	}

	if _, err := m.Validate(pair.RefreshToken, TokenTypeRefresh); err != nil {
		t.Fatalf("Validate refresh: %v", err)
	}
}

func TestValidate_TokenTypeMismatch(t *testing.T) {
	m := testManager()
	pair, _ := m.IssuePair("admin")

	// A refresh token must not pass as an access token and vice versa.
	if _, err := m.Validate(pair.RefreshToken, TokenTypeAccess); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("refresh-as-access err = %v, want ErrUnauthorized", err)
	}
	if _, err := m.Validate(pair.AccessToken, TokenTypeRefresh); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("access-as-refresh err = %v, want ErrUnauthorized", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	pair, _ := testManager().IssuePair("admin")
	other := NewManager("other-secret", time.Minute, time.Hour)
	if _, err := other.Validate(pair.AccessToken, TokenTypeAccess); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)
	pair, _ := m.IssuePair("admin")
	if _, err := m.Validate(pair.AccessToken, TokenTypeAccess); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	m := testManager()
	if _, err := m.Validate("not-a-token", TokenTypeAccess); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "s3cret"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("wrong password err = %v, want ErrUnauthorized", err)
	}
}
