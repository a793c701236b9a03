package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Sign appends an HMAC-SHA256 signature of value to value, separated by a dot.
func Sign(value, secret string) string {
	return value + "." + signature(value, secret)
}

// Unsign returns the original value when signed carries a valid signature.
func Unsign(signed, secret string) (string, bool) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", false
	}
	value, sig := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(signature(value, secret))) {
		return "", false
	}
	return value, true
}

func signature(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
