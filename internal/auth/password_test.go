package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4) // minimum cost keeps the test fast
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatal("expected mismatching password to fail")
	}
}
