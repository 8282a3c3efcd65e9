package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kunalgharate/token-generation-admin-panel/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"exp":  exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileStore(path, "passphrase")

	sess := New()
	sess.Set("opaque-token", models.User{Username: "admin", Role: models.RoleAdmin})
	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw[:4]) != fileMagic {
		t.Fatalf("expected magic header")
	}
	if containsBytes(raw, []byte("opaque-token")) {
		t.Fatalf("expected token to be encrypted at rest")
	}

	loaded := New()
	if err := store.Load(loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Token() != "opaque-token" || loaded.User().Role != models.RoleAdmin {
		t.Fatalf("unexpected session: %q %+v", loaded.Token(), loaded.User())
	}
}

func TestFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	sess := New()
	sess.Set("tok", models.User{Role: models.RoleAdmin})
	if err := NewFileStore(path, "one").Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := NewFileStore(path, "two").Load(New())
	if !errors.Is(err, ErrSessionCorrupt) {
		t.Fatalf("expected ErrSessionCorrupt, got %v", err)
	}
}

func TestFileStoreMissingAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path, "k")
	if err := store.Load(New()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}

	sess := New()
	sess.Set("tok", models.User{})
	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, got %v", err)
	}
}

func TestFileStoreRejectsExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path, "k")
	sess := New()
	sess.Set(signedToken(t, time.Now().Add(-time.Hour)), models.User{Role: models.RoleAdmin})
	if err := store.Save(sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Load(New()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := Inspect(signedToken(t, exp))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != "admin" || !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Expired(time.Now()) {
		t.Fatalf("expected token to be valid")
	}
	if !claims.Expired(exp.Add(time.Second)) {
		t.Fatalf("expected token to be expired after exp")
	}
	if _, err := Inspect("not-a-jwt"); !errors.Is(err, ErrOpaqueToken) {
		t.Fatalf("expected ErrOpaqueToken, got %v", err)
	}
}

func containsBytes(haystack, needle []byte) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return true
		}
	}
	return false
}
