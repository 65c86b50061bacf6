package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// refreshTokenBytes is the default refresh-token entropy (256 bits).
const refreshTokenBytes = 32

// NewRefreshToken returns a random opaque token for the refresh flow,
// hex-encoded so it is safe in JSON and SQL alike.
func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = refreshTokenBytes
	}
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
