// Package cryptox implements the one-way password digest used by the
// credential store.
//
// New digests are bcrypt hashes. Digests written by the legacy server are
// unsalted SHA-256 hex strings; they are still accepted by CheckPassword so
// existing users.json files keep working.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new digests.
var BcryptCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt digest of password.
func HashPassword(password []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(password, BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches digest.
func CheckPassword(password []byte, digest string) bool {
	if IsLegacyDigest(digest) {
		return subtle.ConstantTimeCompare([]byte(LegacyDigest(password)), []byte(strings.ToLower(digest))) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), password) == nil
}

// LegacyDigest is the hex SHA-256 digest the legacy server stored.
func LegacyDigest(password []byte) string {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:])
}

// IsLegacyDigest reports whether digest looks like a legacy SHA-256 hex digest.
func IsLegacyDigest(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
