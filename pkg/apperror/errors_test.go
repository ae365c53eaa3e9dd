package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("PAY_001", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[PAY_001] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("PAY_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestSecurityErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"UnknownMerchant", ErrUnknownMerchant(), "SEC_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "SEC_002", 401},
		{"TimestampExpired", ErrTimestampExpired(), "SEC_003", 403},
		{"NonceUsed", ErrNonceUsed(), "SEC_004", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestPaymentErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientBalance", ErrInsufficientBalance(), "PAY_001", 402},
		{"InvalidAmount", ErrInvalidAmount(), "PAY_002", 400},
		{"DuplicateOrder", ErrDuplicateOrder(), "PAY_003", 409},
		{"NotFound", ErrNotFound("Order"), "PAY_004", 404},
		{"OrderExpired", ErrOrderExpired(), "PAY_005", 422},
		{"UnsupportedChain", ErrUnsupportedChain("dogecoin"), "PAY_006", 400},
		{"UnsupportedToken", ErrUnsupportedToken("shib"), "PAY_007", 400},
		{"InvalidAddress", ErrInvalidAddress(), "PAY_008", 400},
		{"InvalidStateTransition", ErrInvalidStateTransition("success", "pending"), "PAY_009", 409},
		{"NoRateAvailable", ErrNoRateAvailable("EUR"), "PAY_010", 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestChainErrors(t *testing.T) {
	inner := fmt.Errorf("dial tcp: i/o timeout")

	rpcErr := ErrRPCUnavailable(inner)
	assert.Equal(t, "CHAIN_001", rpcErr.Code)
	assert.Equal(t, 503, rpcErr.HTTPStatus)
	assert.True(t, errors.Is(rpcErr, inner))

	bcErr := ErrBroadcastRejected(fmt.Errorf("nonce too low"))
	assert.Equal(t, "CHAIN_002", bcErr.Code)
	assert.Equal(t, 422, bcErr.HTTPStatus)

	reorgErr := ErrReorged()
	assert.Equal(t, "CHAIN_003", reorgErr.Code)
	assert.Equal(t, 409, reorgErr.HTTPStatus)
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401},
		{"MerchantSuspended", ErrMerchantSuspended(), "AUTH_002", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	ksErr := ErrKeystoreFailure(inner)
	assert.Equal(t, "SYS_002", ksErr.Code)
	assert.Equal(t, 500, ksErr.HTTPStatus)
}

func TestNotFoundEntity(t *testing.T) {
	err := ErrNotFound("Merchant")
	assert.Contains(t, err.Message, "Merchant")
	assert.Equal(t, "PAY_004", err.Code)
}
