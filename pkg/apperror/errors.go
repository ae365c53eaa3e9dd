package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Security & request authentication (SEC) ----

func ErrUnknownMerchant() *AppError {
	return New("SEC_001", "Unknown merchant number", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp outside allowed window", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

func ErrRateLimitExceeded() *AppError {
	return New("SEC_005", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Order & ledger business logic (PAY) ----

func ErrInsufficientBalance() *AppError {
	return New("PAY_001", "Insufficient account balance", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("PAY_002", "Invalid amount", http.StatusBadRequest)
}

func ErrDuplicateOrder() *AppError {
	return New("PAY_003", "Duplicate out_trade_no for merchant", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrOrderExpired() *AppError {
	return New("PAY_005", "Deposit order has expired", http.StatusUnprocessableEntity)
}

func ErrUnsupportedChain(chain string) *AppError {
	return New("PAY_006", fmt.Sprintf("Unsupported chain: %s", chain), http.StatusBadRequest)
}

func ErrUnsupportedToken(token string) *AppError {
	return New("PAY_007", fmt.Sprintf("Unsupported token: %s", token), http.StatusBadRequest)
}

func ErrInvalidAddress() *AppError {
	return New("PAY_008", "Invalid destination address for chain", http.StatusBadRequest)
}

func ErrInvalidStateTransition(from, to string) *AppError {
	return New("PAY_009", fmt.Sprintf("Illegal order transition %s -> %s", from, to), http.StatusConflict)
}

func ErrNoRateAvailable(currency string) *AppError {
	return New("PAY_010", fmt.Sprintf("No exchange rate configured for %s", currency), http.StatusUnprocessableEntity)
}

// ---- Chain boundary (CHAIN) ----

func ErrRPCUnavailable(err error) *AppError {
	return Wrap("CHAIN_001", "Chain RPC unavailable", http.StatusServiceUnavailable, err)
}

func ErrBroadcastRejected(err error) *AppError {
	return Wrap("CHAIN_002", "Chain rejected broadcast", http.StatusUnprocessableEntity, err)
}

func ErrReorged() *AppError {
	return New("CHAIN_003", "Transaction lost to chain reorganization", http.StatusConflict)
}

// ---- Admin authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrMerchantSuspended() *AppError {
	return New("AUTH_002", "Merchant account is suspended", http.StatusForbidden)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_003", "Invalid username or password", http.StatusUnauthorized)
}

// ---- System & infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrKeystoreFailure(err error) *AppError {
	return Wrap("SYS_002", "Keystore failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PAY_002-style validation error.
func Validation(message string) *AppError {
	return New("PAY_002", message, http.StatusBadRequest)
}
