package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HMACSignatureService implements ports.SignatureService using HMAC-SHA256.
type HMACSignatureService struct{}

// NewHMACSignatureService creates a new HMAC-SHA256 signature service.
func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign computes HMAC-SHA256 of payload using secretKey.
// Returns lowercase hex-encoded signature.
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks if signature matches HMAC-SHA256(secretKey, payload).
// Uses constant-time comparison to prevent timing attacks.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	expected := s.Sign(secretKey, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// BuildDepositPayload constructs the canonical string a deposit request is
// signed over. Field order is part of the wire contract.
func BuildDepositPayload(merchantNo string, timestamp int64, nonce, outTradeNo, token, chain, amount, callbackURL string) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%s", merchantNo, timestamp, nonce, outTradeNo, token, chain, amount, callbackURL)
}

// BuildWithdrawPayload constructs the canonical string a withdrawal request
// is signed over. The destination address sits before the callback URL.
func BuildWithdrawPayload(merchantNo string, timestamp int64, nonce, outTradeNo, token, chain, amount, toAddress, callbackURL string) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s|%s|%s|%s|%s", merchantNo, timestamp, nonce, outTradeNo, token, chain, amount, toAddress, callbackURL)
}

// BuildQueryPayload constructs the canonical string an order query is
// signed over.
func BuildQueryPayload(merchantNo string, timestamp int64, nonce, orderNo string) string {
	return fmt.Sprintf("%s|%d|%s|%s", merchantNo, timestamp, nonce, orderNo)
}

// BuildOutTradeQueryPayload constructs the canonical string an out-trade-no
// query is signed over. The order kind is part of the payload because the
// same out_trade_no may exist on both sides of the ledger.
func BuildOutTradeQueryPayload(merchantNo string, timestamp int64, nonce, outTradeNo, kind string) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s", merchantNo, timestamp, nonce, outTradeNo, kind)
}

// BuildCallbackPayload constructs the canonical string a webhook callback
// is signed over, letting merchants verify origin.
func BuildCallbackPayload(merchantNo, orderNo, status, amount string) string {
	return fmt.Sprintf("%s|%s|%s|%s", merchantNo, orderNo, status, amount)
}
