package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword generates a bcrypt hash for the given password at the default
// cost (10). It errors if the password is longer than 72 bytes.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword returns an error if the password does not resolve to the
// given hash.
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
