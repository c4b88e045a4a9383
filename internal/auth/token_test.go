package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	token, err := svc.Issue("alice@example.com", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := svc.Verify(token, now.Add(time.Hour-time.Second))
	if err != nil {
		t.Fatalf("verify just before expiry: %v", err)
	}
	if sub != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %q", sub)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	token, err := svc.Issue("alice@example.com", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Verify(token, now.Add(time.Hour+time.Second))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	now := time.Now().UTC()

	token, err := svc.Issue("alice@example.com", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	parts[2] = flipChar(parts[2], 5)

	_, err = svc.Verify(strings.Join(parts, "."), now)
	if !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestVerifyTamperedPayloadNeverSucceeds(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	now := time.Now().UTC()

	token, err := svc.Issue("alice@example.com", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	for i, seg := range parts {
		tampered := make([]string, 3)
		copy(tampered, parts)
		tampered[i] = flipChar(seg, len(seg)/2)

		sub, err := svc.Verify(strings.Join(tampered, "."), now)
		if err == nil {
			t.Fatalf("tampered segment %d verified with subject %q", i, sub)
		}
	}
}

func TestVerifyWrongKey(t *testing.T) {
	now := time.Now().UTC()
	token, err := NewTokenService("other-secret", time.Hour).Issue("alice@example.com", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = NewTokenService(testSecret, time.Hour).Verify(token, now)
	if !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(raw, time.Now().UTC()); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Verify(%q): expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

// flipChar swaps one character so the segment stays valid base64url but
// differs from the original.
func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
