package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var errInvalidSignature = errors.New("whatsapp: signature mismatch")

// VerifySignature validates the X-Hub-Signature-256 header Meta attaches
// to webhook deliveries: "sha256=" followed by the hex HMAC-SHA256 of the
// raw body under the app secret.
func VerifySignature(header string, payload []byte, appSecret string) bool {
	if appSecret == "" {
		return false
	}
	actual := strings.TrimPrefix(strings.TrimSpace(header), "sha256=")
	if actual == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(actual)))
}
