package service

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes credentials with bcrypt. The zero cost selects
// bcrypt.DefaultCost (10).
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the salted bcrypt digest of plaintext. The salt is random per
// call, so two hashes of the same plaintext differ yet both verify.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether hashed was produced from plaintext. bcrypt performs
// the comparison in constant time; any decode failure on a malformed hash
// verifies as false.
func (h *BcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
