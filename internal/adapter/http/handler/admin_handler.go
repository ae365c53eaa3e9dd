package handler

import (
	"crypto/subtle"

	"crypto-settlement-gateway/internal/adapter/http/dto"
	"crypto-settlement-gateway/internal/adapter/http/middleware"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"
	"crypto-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
)

// AdminCredentials holds the configured operator login. TOTPSecret is the
// base32 seed of the operator's second factor.
type AdminCredentials struct {
	Username   string
	Password   string
	TOTPSecret string
}

// AdminHandler serves the privileged operator endpoints.
type AdminHandler struct {
	tokenSvc      ports.TokenService
	withdrawalSvc ports.WithdrawalService
	dispatcher    ports.WebhookDispatcher
	creds         AdminCredentials
	log           zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	tokenSvc ports.TokenService,
	withdrawalSvc ports.WithdrawalService,
	dispatcher ports.WebhookDispatcher,
	creds AdminCredentials,
	log zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		tokenSvc:      tokenSvc,
		withdrawalSvc: withdrawalSvc,
		dispatcher:    dispatcher,
		creds:         creds,
		log:           log,
	}
}

// Login handles POST /api/v1/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.creds.Password)) == 1
	if !userOK || !passOK {
		response.Error(c, apperror.ErrInvalidCredentials())
		return
	}
	if !totp.Validate(req.TOTPCode, h.creds.TOTPSecret) {
		response.Error(c, apperror.ErrInvalidCredentials())
		return
	}

	token, expiry, err := h.tokenSvc.Generate(req.Username)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.AdminLoginResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// ForceComplete handles POST /api/v1/admin/orders/:order_no/force-complete.
// It settles a stuck withdrawal through the same ledger path as automatic
// completion and records the acting operator.
func (h *AdminHandler) ForceComplete(c *gin.Context) {
	orderNo := c.Param("order_no")
	operator := c.GetString(middleware.CtxAdminUser)

	if err := h.withdrawalSvc.ForceComplete(c.Request.Context(), orderNo, operator); err != nil {
		response.Error(c, err)
		return
	}

	h.log.Info().Str("order_no", orderNo).Str("operator", operator).Msg("withdrawal force-completed")
	response.OK(c, dto.ForceCompleteResponse{
		OrderNo:  orderNo,
		Operator: operator,
	})
}

// ResendWebhook handles POST /api/v1/admin/webhooks/:delivery_id/resend.
func (h *AdminHandler) ResendWebhook(c *gin.Context) {
	deliveryID, err := uuid.Parse(c.Param("delivery_id"))
	if err != nil {
		response.Error(c, apperror.Validation("delivery_id must be a UUID"))
		return
	}

	if err := h.dispatcher.Resend(c.Request.Context(), deliveryID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ResendWebhookResponse{
		DeliveryID: deliveryID.String(),
	})
}
