// Package crypto hashes account passwords with Argon2id.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const saltLen = 16

// Argon2id parameters, sized for interactive logins on a shared host.
const (
	hashTime    uint32 = 3
	hashMemory  uint32 = 64 * 1024 // KiB
	hashThreads uint8  = 1
	hashLen     uint32 = 32
)

// NewSalt returns a fresh per-account salt.
func NewSalt() ([]byte, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Hash derives the stored password hash from a password and its salt.
func Hash(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, hashTime, hashMemory, hashThreads, hashLen)
}

// Verify reports whether password matches the stored hash in constant time.
func Verify(password, salt, stored []byte) bool {
	return subtle.ConstantTimeCompare(Hash(password, salt), stored) == 1
}
