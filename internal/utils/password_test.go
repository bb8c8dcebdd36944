package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()
	h1, err := HashPassword("same-input", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-input", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	t.Parallel()
	tok, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(tok.Raw) != 96 {
		t.Fatalf("raw token length %d, want 96 hex chars", len(tok.Raw))
	}
	if HashRefreshRaw(tok.Raw) != HashRefreshRaw(tok.Raw) {
		t.Fatal("hash is not deterministic")
	}
	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if HashRefreshRaw(tok.Raw) == HashRefreshRaw(other.Raw) {
		t.Fatal("distinct tokens hash identically")
	}
}
