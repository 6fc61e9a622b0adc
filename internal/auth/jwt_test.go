package auth

import (
	"testing"
	"time"

	"github.com/tripfolio/tripfolio/internal/models"
)

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com"}
	manager := NewJWTManager("test-secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("UserID: got %s, want %s", claims.UserID, user.ID)
		}
		if claims.Email != user.Email {
			t.Errorf("Email: got %s, want %s", claims.Email, user.Email)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		other := NewJWTManager("different-secret", time.Hour)
		if _, err := other.Validate(token); err == nil {
			t.Error("expected validation to fail with a different secret")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); err == nil {
			t.Error("expected validation to fail for an expired token")
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); err == nil {
			t.Error("expected validation to fail for a malformed token")
		}
	})
}
