package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the legacy service used (10 rounds).
const bcryptCost = 10

// HashPassword derives a salted bcrypt digest from the plaintext password.
// The salt is random, so hashing the same input twice yields different
// digests.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether digest was derived from password, using
// bcrypt's built-in constant-time comparison. A malformed digest simply
// verifies as false.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
