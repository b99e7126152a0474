// Package password hashes and verifies account passwords with bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the bcrypt hash of plain at the default cost.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports a non-nil error when plain does not match hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
