package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePrefix names the hash used, the way receivers expect it in the header.
const SignaturePrefix = "sha256="

// SignPayload returns the header value for body signed with secret.
//
// Example:
//
//	sig := SignPayload("whsec_abc", body) // "sha256=5d41402a..."
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received header value in constant time.
func VerifySignature(secret string, body []byte, header string) bool {
	if !strings.HasPrefix(header, SignaturePrefix) {
		return false
	}
	expected := SignPayload(secret, body)
	return hmac.Equal([]byte(expected), []byte(header))
}
