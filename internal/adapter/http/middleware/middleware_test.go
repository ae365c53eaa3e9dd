package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func activeTestMerchant() *domain.Merchant {
	return &domain.Merchant{
		ID:         uuid.New(),
		MerchantNo: "M10001",
		Status:     domain.MerchantStatusActive,
	}
}

func authHeaders(req *http.Request, merchantNo, nonce string, ts int64) {
	req.Header.Set(HeaderMerchantNo, merchantNo)
	req.Header.Set(HeaderSignature, "sig")
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderNonce, nonce)
}

func TestMerchantAuth_MissingHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMerchantAuth_TimestampOutsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for _, ts := range []int64{
		time.Now().Add(-6 * time.Minute).UnixMilli(),
		time.Now().Add(6 * time.Minute).UnixMilli(),
	} {
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		authHeaders(req, "M10001", "nonce123", ts)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	}
}

func TestMerchantAuth_TimestampInsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	merchant := activeTestMerchant()
	merchantRepo.EXPECT().GetByMerchantNo(gomock.Any(), "M10001").Return(merchant, nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "M10001", "nonce123", nonceTTL).Return(true, nil)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// 4 minutes of skew is still inside the 5 minute window.
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	authHeaders(req, "M10001", "nonce123", time.Now().Add(-4*time.Minute).UnixMilli())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMerchantAuth_SecondsTimestampRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// The header carries milliseconds. A client sending unix seconds is
	// off by three orders of magnitude and lands far outside the window.
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	authHeaders(req, "M10001", "nonce123", time.Now().Unix())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMerchantAuth_UnknownMerchant(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	merchantRepo.EXPECT().GetByMerchantNo(gomock.Any(), "M99999").Return(nil, nil)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	authHeaders(req, "M99999", "nonce123", time.Now().UnixMilli())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMerchantAuth_SuspendedMerchant(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	merchant := activeTestMerchant()
	merchant.Status = domain.MerchantStatusSuspended
	merchantRepo.EXPECT().GetByMerchantNo(gomock.Any(), "M10001").Return(merchant, nil)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	authHeaders(req, "M10001", "nonce123", time.Now().UnixMilli())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMerchantAuth_ReplayedNonce(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	merchantRepo.EXPECT().GetByMerchantNo(gomock.Any(), "M10001").Return(activeTestMerchant(), nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "M10001", "nonce-used", nonceTTL).Return(false, nil)

	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	authHeaders(req, "M10001", "nonce-used", time.Now().UnixMilli())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMerchantAuth_SetsRequestContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	merchantRepo := mocks.NewMockMerchantRepository(ctrl)
	nonceStore := mocks.NewMockNonceStore(ctrl)

	merchant := activeTestMerchant()
	nowTs := time.Now().UnixMilli()
	merchantRepo.EXPECT().GetByMerchantNo(gomock.Any(), "M10001").Return(merchant, nil)
	nonceStore.EXPECT().CheckAndSet(gomock.Any(), "M10001", "nonce-ok", nonceTTL).Return(true, nil)

	var (
		gotMerchant  *domain.Merchant
		gotTimestamp int64
		gotNonce     string
		gotSignature string
	)
	router := gin.New()
	router.POST("/test", MerchantAuth(merchantRepo, nonceStore, zerolog.Nop()), func(c *gin.Context) {
		m, _ := c.Get(CtxMerchant)
		gotMerchant = m.(*domain.Merchant)
		gotTimestamp = c.GetInt64(CtxTimestamp)
		gotNonce = c.GetString(CtxNonce)
		gotSignature = c.GetString(CtxSignature)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	authHeaders(req, "M10001", "nonce-ok", nowTs)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, merchant.ID, gotMerchant.ID)
	assert.Equal(t, nowTs, gotTimestamp)
	assert.Equal(t, "nonce-ok", gotNonce)
	assert.Equal(t, "sig", gotSignature)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	tokenSvc.EXPECT().Validate("bad_token").Return(nil, assert.AnError)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokenSvc := mocks.NewMockTokenService(ctrl)

	tokenSvc.EXPECT().Validate("good_token").Return(&ports.TokenClaims{Subject: "ops-admin"}, nil)

	var capturedUser string
	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		capturedUser = c.GetString(CtxAdminUser)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good_token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops-admin", capturedUser)
}

func TestRecovery_PanicRecovered(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zerolog.Nop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}
