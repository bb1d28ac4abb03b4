package auth

import "golang.org/x/crypto/bcrypt"

// Hasher performs one-way password hashing and verification using bcrypt.
// The cost factor is configurable so hashing expense can track hardware.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. A cost of zero
// selects bcrypt's default.
func NewHasher(cost int) Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash produces a salted digest of the plaintext.
func (h Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A malformed digest
// verifies as false rather than erroring; bcrypt's comparison is resistant
// to timing side-channels.
func (h Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
