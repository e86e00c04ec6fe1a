package service

import (
	"errors"
	"testing"
	"time"

	"github.com/careslot/appointment-booking-service/internal/domain"
	"github.com/careslot/appointment-booking-service/internal/repository"
	"github.com/careslot/appointment-booking-service/internal/testutil"
)

const testSecret = "unit-test-secret"

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := testutil.OpenDB(t)
	users := repository.NewUserRepository(db)
	now := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	return NewAuthService(users, testSecret, testutil.SilentLogger(), func() time.Time { return now })
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Register("Alice", "alice@test.dev", "+1000000000", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Role != domain.RoleUser {
		t.Errorf("role = %s, want USER", result.Role)
	}
	if result.Token == "" {
		t.Fatal("no token issued")
	}

	claims, err := ParseToken(testSecret, result.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != result.UserID || claims.Role != domain.RoleUser {
		t.Errorf("claims = (%d, %s), want (%d, USER)", claims.UserID, claims.Role, result.UserID)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != tokenTTL {
		t.Errorf("token lifetime = %s, want %s", got, tokenTTL)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register("", "alice@test.dev", "", "hunter22"); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("missing name error = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Register("Alice", "alice@test.dev", "", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("missing password error = %v, want ErrBadRequest", err)
	}

	if _, err := svc.Register("Alice", "alice@test.dev", "", "hunter22"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register("Alice Again", "alice@test.dev", "", "hunter22"); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate email error = %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	if _, err := svc.Register("Alice", "alice@test.dev", "", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login("alice@test.dev", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Name != "Alice" {
		t.Errorf("name = %s, want Alice", result.Name)
	}

	if _, err := svc.Login("alice@test.dev", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login("nobody@test.dev", "hunter22"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", err)
	}
}

func TestParseTokenRejectsForgedSecret(t *testing.T) {
	svc := newAuthService(t)
	result, err := svc.Register("Alice", "alice@test.dev", "", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := ParseToken("some-other-secret", result.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("forged secret error = %v, want ErrUnauthorized", err)
	}
	if _, err := ParseToken(testSecret, "not.a.token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("garbage token error = %v, want ErrUnauthorized", err)
	}
}
