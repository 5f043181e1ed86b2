package service

import (
	"errors"
	"testing"
	"time"

	"github.com/halcyonlabs/portfolio-api/internal/models"
	"github.com/halcyonlabs/portfolio-api/internal/utils"
)

var authTestSecret = []byte("auth-test-secret")

func TestLogin_Success(t *testing.T) {
	store := newFakeAdminStore()
	u := store.add(t, "ana", "ana@x.com", "abcdef", models.RoleAdmin, true)
	svc := NewAdminAuthService(store, authTestSecret)

	token, identity, err := svc.Login("ana", "abcdef")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if identity.ID != u.ID || identity.Username != "ana" || identity.Role != models.RoleAdmin {
		t.Errorf("unexpected identity: %+v", identity)
	}

	claims, err := utils.ValidateJWT(authTestSecret, token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLogin_ByEmail(t *testing.T) {
	store := newFakeAdminStore()
	store.add(t, "ana", "ana@x.com", "abcdef", models.RoleAdmin, true)
	svc := NewAdminAuthService(store, authTestSecret)

	if _, _, err := svc.Login("ana@x.com", "abcdef"); err != nil {
		t.Fatalf("Login by email: %v", err)
	}
}

func TestLogin_TrimsIdentifier(t *testing.T) {
	store := newFakeAdminStore()
	store.add(t, "ana", "ana@x.com", "abcdef", models.RoleAdmin, true)
	svc := NewAdminAuthService(store, authTestSecret)

	if _, _, err := svc.Login("  ana  ", "abcdef"); err != nil {
		t.Fatalf("Login with padded identifier: %v", err)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	store := newFakeAdminStore()
	store.add(t, "ana", "ana@x.com", "abcdef", models.RoleAdmin, true)
	store.add(t, "bea", "bea@x.com", "abcdef", models.RoleAdmin, false)
	svc := NewAdminAuthService(store, authTestSecret)

	cases := []struct {
		name       string
		identifier string
		password   string
	}{
		{"unknown identifier", "nobody", "abcdef"},
		{"wrong password", "ana", "wrong"},
		{"inactive account", "bea", "abcdef"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(tc.identifier, tc.password)
			if !errors.Is(err, utils.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogin_StoreFailureIsGenericToCaller(t *testing.T) {
	store := newFakeAdminStore()
	store.failWith = errors.New("connection refused")
	svc := NewAdminAuthService(store, authTestSecret)

	_, _, err := svc.Login("ana", "abcdef")
	if !errors.Is(err, utils.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_StampsLastLoginAsynchronously(t *testing.T) {
	store := newFakeAdminStore()
	u := store.add(t, "ana", "ana@x.com", "abcdef", models.RoleAdmin, true)
	svc := NewAdminAuthService(store, authTestSecret)

	if _, _, err := svc.Login("ana", "abcdef"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	select {
	case id := <-store.lastLogin:
		if id != u.ID {
			t.Errorf("last_login stamped for user %d, want %d", id, u.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("last_login update never ran")
	}
}

func TestLogin_FailedAttemptDoesNotStampLastLogin(t *testing.T) {
	store := newFakeAdminStore()
	store.add(t, "ana", "ana@x.com", "abcdef", models.RoleAdmin, true)
	svc := NewAdminAuthService(store, authTestSecret)

	if _, _, err := svc.Login("ana", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}

	select {
	case <-store.lastLogin:
		t.Error("last_login stamped on failed login")
	case <-time.After(50 * time.Millisecond):
	}
}
