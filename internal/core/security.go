// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const sessionIDLength = 32

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func GenerateSessionID() (string, error) {
	return GenerateSecureToken(sessionIDLength)
}

// ValidSessionID reports whether id has the shape GenerateSessionID
// produces.
func ValidSessionID(id string) bool {
	if len(id) != base64.RawURLEncoding.EncodedLen(sessionIDLength) {
		return false
	}

	_, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil
}

// HashToken is used to derive storage keys from session ids, so the raw id
// never reaches Redis or Postgres.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
