package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "my-secret-key"
	payload := "M2024001|1708092000|abc123nonce|ORDER-7|USDT|ETH|50000000|https://merchant.example/cb"

	signature := svc.Sign(secretKey, payload)

	// Should be lowercase hex
	assert.Regexp(t, `^[0-9a-f]{64}$`, signature, "signature should be 64-char lowercase hex (SHA-256)")

	// Verify with correct key
	assert.True(t, svc.Verify(secretKey, payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongKey(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := "test payload"

	signature := svc.Sign("correct-key", payload)
	assert.False(t, svc.Verify("wrong-key", payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongPayload(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "my-key"

	signature := svc.Sign(secretKey, "original payload")
	assert.False(t, svc.Verify(secretKey, "tampered payload", signature))
}

func TestHMACSignatureService_VerifyFails_WrongSignature(t *testing.T) {
	svc := NewHMACSignatureService()
	assert.False(t, svc.Verify("key", "payload", "invalidsignature"))
}

func TestHMACSignatureService_DeterministicSign(t *testing.T) {
	svc := NewHMACSignatureService()

	sig1 := svc.Sign("key", "data")
	sig2 := svc.Sign("key", "data")

	assert.Equal(t, sig1, sig2, "same key+payload should produce same signature")
}

func TestBuildDepositPayload(t *testing.T) {
	result := BuildDepositPayload("M2024001", 1708092000, "abc123", "ORDER-7", "USDT", "ETH", "50.5", "https://merchant.example/cb")

	expected := "M2024001|1708092000|abc123|ORDER-7|USDT|ETH|50.5|https://merchant.example/cb"
	assert.Equal(t, expected, result)
}

func TestBuildWithdrawPayload(t *testing.T) {
	result := BuildWithdrawPayload("M2024001", 1708092000, "n1", "WD-1", "USDT", "TRON", "100", "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", "")

	expected := "M2024001|1708092000|n1|WD-1|USDT|TRON|100|TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t|"
	assert.Equal(t, expected, result)
}

func TestBuildQueryPayload(t *testing.T) {
	result := BuildQueryPayload("M2024001", 1708092000, "n1", "D202402161200001234")

	assert.Equal(t, "M2024001|1708092000|n1|D202402161200001234", result)
}

func TestBuildCallbackPayload_RoundTrip(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := BuildCallbackPayload("M2024001", "D202402161200001234", "SUCCESS", "50000000")

	sig := svc.Sign("deposit-secret", payload)
	assert.True(t, svc.Verify("deposit-secret", payload, sig))
	assert.False(t, svc.Verify("withdraw-secret", payload, sig))
}
