package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"math/rand/v2"
)

// ==================== SECURED LINKS ====================

const securedTokenLength = 16

// SecuredToken signs a signal link (action + params) for one session so it
// cannot be replayed from another browser.
func SecuredToken(secret, session, action string, params ...string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(session))
	mac.Write([]byte{0})
	mac.Write([]byte(action))
	for _, p := range params {
		mac.Write([]byte{0})
		mac.Write([]byte(p))
	}
	sum := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return sum[:securedTokenLength]
}

// VerifySecuredToken reports whether token was issued by SecuredToken for the same inputs.
func VerifySecuredToken(token, secret, session, action string, params ...string) bool {
	if len(token) != securedTokenLength {
		return false
	}
	expected := SecuredToken(secret, session, action, params...)
	return hmac.Equal([]byte(token), []byte(expected))
}

// ==================== RANDOM ====================

// RandomInt returns a number in [min, max].
func RandomInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.IntN(max-min+1)
}
