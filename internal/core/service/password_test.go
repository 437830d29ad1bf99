package service

import "testing"

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(4) // min cost keeps the test fast

	hash1, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	hash2, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if hash1 == hash2 {
		t.Fatalf("expected distinct salted hashes for the same plaintext")
	}
	if !h.Verify("s3cret", hash1) || !h.Verify("s3cret", hash2) {
		t.Fatalf("both hashes must verify against the original plaintext")
	}
	if h.Verify("wrong", hash1) {
		t.Fatalf("wrong plaintext must not verify")
	}
}

func TestBcryptHasher_MalformedHashFailsClosed(t *testing.T) {
	h := NewBcryptHasher(0)

	if h.Verify("anything", "") {
		t.Fatalf("empty hash must not verify")
	}
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must not verify")
	}
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != 10 {
		t.Fatalf("expected default cost 10, got %d", h.cost)
	}
	if h := NewBcryptHasher(99); h.cost != 10 {
		t.Fatalf("expected out-of-range cost to fall back to 10, got %d", h.cost)
	}
}
