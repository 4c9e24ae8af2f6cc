package middleware

import (
	"testing"
	"time"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("ops", "secret-key")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	claims, err := validateAdminToken(token, "secret-key")
	if err != nil {
		t.Fatalf("validateAdminToken: %v", err)
	}
	if claims.Username != "ops" {
		t.Errorf("username = %q, want ops", claims.Username)
	}
}

func TestAdminTokenWrongSecretRejected(t *testing.T) {
	token, err := GenerateAdminToken("ops", "secret-key")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	if _, err := validateAdminToken(token, "other-secret"); err == nil {
		t.Error("token validated with the wrong secret")
	}
}

func TestLoginRateLimiterLocksAfterFailures(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)
	ip := "192.0.2.1"

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allowed(ip); !ok {
			t.Fatalf("attempt %d should be allowed", i)
		}
		rl.RecordAttempt(ip, false)
	}

	if ok, retry := rl.allowed(ip); ok || retry <= 0 {
		t.Errorf("expected lockout after 3 failures, allowed=%v retry=%v", ok, retry)
	}

	// A success clears the counter.
	rl.RecordAttempt(ip, true)
	if ok, _ := rl.allowed(ip); !ok {
		t.Error("success should clear the counter")
	}
}
