package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"object":"whatsapp_business_account"}`)
	secret := "app-secret"

	if !VerifySignature(signBody(body, secret), body, secret) {
		t.Fatal("expected valid signature to verify")
	}
	if VerifySignature(signBody(body, "other-secret"), body, secret) {
		t.Fatal("expected signature under wrong secret to fail")
	}
	if VerifySignature(signBody([]byte("tampered"), secret), body, secret) {
		t.Fatal("expected signature over different body to fail")
	}
	if VerifySignature("", body, secret) {
		t.Fatal("expected empty header to fail")
	}
	if VerifySignature(signBody(body, secret), body, "") {
		t.Fatal("expected empty secret to fail closed")
	}
}
