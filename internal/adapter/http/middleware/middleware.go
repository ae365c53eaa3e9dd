package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"
	"crypto-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// Header names for merchant request authentication
	HeaderMerchantNo = "X-Merchant-No"
	HeaderSignature  = "X-Signature"
	HeaderTimestamp  = "X-Timestamp"
	HeaderNonce      = "X-Nonce"

	// Max timestamp drift allowed either side of server time. The
	// X-Timestamp header carries unix milliseconds.
	maxTimestampDrift = 5 * time.Minute

	// Nonce TTL: kept just past the drift window so a replay inside the
	// window is always caught
	nonceTTL = 11 * time.Minute

	// Context keys
	CtxMerchant   = "merchant"
	CtxMerchantNo = "merchant_no"
	CtxTimestamp  = "request_timestamp"
	CtxNonce      = "request_nonce"
	CtxSignature  = "request_signature"
	CtxAdminUser  = "admin_user"
)

// MerchantAuth authenticates merchant API requests. It checks header
// presence, the timestamp window and nonce uniqueness, then stores the
// merchant and request credentials in the gin context. The signature
// itself covers ordered request fields, so handlers verify it after
// binding the body.
func MerchantAuth(
	merchantRepo ports.MerchantRepository,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		merchantNo := c.GetHeader(HeaderMerchantNo)
		signature := c.GetHeader(HeaderSignature)
		timestampStr := c.GetHeader(HeaderTimestamp)
		nonce := c.GetHeader(HeaderNonce)

		if merchantNo == "" || signature == "" || timestampStr == "" || nonce == "" {
			response.Error(c, apperror.ErrUnknownMerchant())
			c.Abort()
			return
		}

		// Step 1: Timestamp window
		timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
		if err != nil {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}
		now := time.Now().UnixMilli()
		if math.Abs(float64(now-timestamp)) > float64(maxTimestampDrift.Milliseconds()) {
			response.Error(c, apperror.ErrTimestampExpired())
			c.Abort()
			return
		}

		// Step 2: Merchant lookup
		merchant, err := merchantRepo.GetByMerchantNo(c.Request.Context(), merchantNo)
		if err != nil {
			log.Error().Err(err).Str("merchant_no", merchantNo).Msg("failed to fetch merchant")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if merchant == nil {
			response.Error(c, apperror.ErrUnknownMerchant())
			c.Abort()
			return
		}
		if !merchant.IsActive() {
			response.Error(c, apperror.ErrMerchantSuspended())
			c.Abort()
			return
		}

		// Step 3: Nonce replay check
		isNew, err := nonceStore.CheckAndSet(c.Request.Context(), merchantNo, nonce, nonceTTL)
		if err != nil {
			log.Warn().Err(err).Msg("nonce store error, allowing request")
		} else if !isNew {
			response.Error(c, apperror.ErrNonceUsed())
			c.Abort()
			return
		}

		c.Set(CtxMerchant, merchant)
		c.Set(CtxMerchantNo, merchantNo)
		c.Set(CtxTimestamp, timestamp)
		c.Set(CtxNonce, nonce)
		c.Set(CtxSignature, signature)

		c.Next()
	}
}

// JWTAuth validates bearer tokens for the operator routes.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxAdminUser, claims.Subject)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
