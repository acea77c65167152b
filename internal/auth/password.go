package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
)

// SaltSize is the length of the random key generated per user.
const SaltSize = 64

// HashPassword derives an HMAC-SHA512 digest of the password keyed with a
// fresh random salt. Hash and salt are stored separately.
func HashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	return computeHash(password, salt), salt, nil
}

// VerifyPassword compares in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	if len(hash) == 0 || len(salt) == 0 {
		return false
	}
	return hmac.Equal(computeHash(password, salt), hash)
}

func computeHash(password string, salt []byte) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}
