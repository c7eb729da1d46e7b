package store

import (
	"testing"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

func TestUserStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-user@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	missing, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown email")
	}

	user, err := s.Create(email, "testpass123", "Test User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.PasswordHash == "testpass123" {
		t.Error("password hash must not be plaintext")
	}
	if !s.CheckPassword(user, "testpass123") {
		t.Error("CheckPassword rejected the correct password")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}

	byID, err := s.FindByID(user.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v, %v", byID, err)
	}
	if byID.Email != email {
		t.Errorf("email: got %q, want %q", byID.Email, email)
	}
}

func TestUserStoreTOTP(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-totp@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(email, "pw", "TOTP User", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	got, _ := s.FindByID(user.ID)
	if !got.TOTPEnabled || got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("TOTP not persisted: enabled=%v secret=%v", got.TOTPEnabled, got.TOTPSecret)
	}
}
