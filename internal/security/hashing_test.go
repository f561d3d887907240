package security

import "testing"

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(4) // min cost for fast tests
	hash, err := h.Hash([]byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := h.Compare(hash, []byte("correct horse battery staple")); err != nil {
		t.Errorf("Compare matching: %v", err)
	}
	if err := h.Compare(hash, []byte("wrong password")); err == nil {
		t.Error("Compare mismatching should fail")
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	if h := NewHasher(0); h.Cost < 4 {
		t.Errorf("zero cost should use a sane default, got %d", h.Cost)
	}
	if h := NewHasher(100); h.Cost > 31 {
		t.Errorf("cost should be clamped to bcrypt max, got %d", h.Cost)
	}
}
