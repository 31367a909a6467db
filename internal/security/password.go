// Package security wraps password hashing for the credential store. Hashes
// are bcrypt; the cost is fixed so every stored hash carries its own salt and
// work factor.
package security

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way hash of the given password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}
