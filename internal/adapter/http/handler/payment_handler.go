package handler

import (
	"crypto-settlement-gateway/internal/adapter/http/dto"
	"crypto-settlement-gateway/internal/adapter/http/middleware"
	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/internal/service"
	"crypto-settlement-gateway/pkg/apperror"
	"crypto-settlement-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PaymentHandler serves the merchant-facing order API.
type PaymentHandler struct {
	depositSvc    ports.DepositService
	withdrawalSvc ports.WithdrawalService
	querySvc      ports.OrderQueryService
	ledgerSvc     ports.LedgerService
	keystore      ports.Keystore
	sigSvc        ports.SignatureService
	log           zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	depositSvc ports.DepositService,
	withdrawalSvc ports.WithdrawalService,
	querySvc ports.OrderQueryService,
	ledgerSvc ports.LedgerService,
	keystore ports.Keystore,
	sigSvc ports.SignatureService,
	log zerolog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		depositSvc:    depositSvc,
		withdrawalSvc: withdrawalSvc,
		querySvc:      querySvc,
		ledgerSvc:     ledgerSvc,
		keystore:      keystore,
		sigSvc:        sigSvc,
		log:           log,
	}
}

// merchantFromCtx pulls the merchant placed by MerchantAuth.
func merchantFromCtx(c *gin.Context) (*domain.Merchant, bool) {
	v, ok := c.Get(middleware.CtxMerchant)
	if !ok {
		response.Error(c, apperror.ErrUnknownMerchant())
		return nil, false
	}
	merchant, ok := v.(*domain.Merchant)
	if !ok {
		response.Error(c, apperror.ErrUnknownMerchant())
		return nil, false
	}
	return merchant, true
}

// verifySignature checks the header signature against the canonical payload
// using the merchant key ciphertext for the operation kind.
func (h *PaymentHandler) verifySignature(c *gin.Context, keyEnc string, payload string) bool {
	ok, err := h.signatureMatches(c, keyEnc, payload)
	if err != nil {
		response.Error(c, apperror.ErrKeystoreFailure(err))
		return false
	}
	if !ok {
		response.Error(c, apperror.ErrInvalidSignature())
		return false
	}
	return true
}

// signatureMatches reports whether the header signature verifies against one
// key without writing a response, so callers can try more than one key.
func (h *PaymentHandler) signatureMatches(c *gin.Context, keyEnc string, payload string) (bool, error) {
	secret, err := h.keystore.DecryptString(keyEnc)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to decrypt merchant api key")
		return false, err
	}
	return h.sigSvc.Verify(secret, payload, c.GetString(middleware.CtxSignature)), nil
}

// CreateDeposit handles POST /api/v1/deposits.
func (h *PaymentHandler) CreateDeposit(c *gin.Context) {
	merchant, ok := merchantFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	// The signature covers the fields exactly as the merchant sent them,
	// so it is checked before sanitization.
	payload := service.BuildDepositPayload(
		merchant.MerchantNo,
		c.GetInt64(middleware.CtxTimestamp),
		c.GetString(middleware.CtxNonce),
		req.OutTradeNo, req.Token, req.Chain, req.Amount, req.CallbackURL,
	)
	if !h.verifySignature(c, merchant.DepositKeyEnc, payload) {
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.depositSvc.CreateDeposit(c.Request.Context(), ports.CreateDepositRequest{
		MerchantID:  merchant.ID,
		OutTradeNo:  req.OutTradeNo,
		Chain:       req.Chain,
		Token:       req.Token,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
		ExtraData:   req.ExtraData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.DepositResponse{
		OrderNo:       result.Order.OrderNo,
		OutTradeNo:    result.Order.OutTradeNo,
		Chain:         result.Order.Chain,
		Token:         result.Order.Token,
		WalletAddress: result.WalletAddress,
		PayAmount:     result.PayAmount.String(),
		Status:        string(result.Order.Status),
		ExpiresAt:     result.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// CreateWithdrawal handles POST /api/v1/withdrawals.
func (h *PaymentHandler) CreateWithdrawal(c *gin.Context) {
	merchant, ok := merchantFromCtx(c)
	if !ok {
		return
	}

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	payload := service.BuildWithdrawPayload(
		merchant.MerchantNo,
		c.GetInt64(middleware.CtxTimestamp),
		c.GetString(middleware.CtxNonce),
		req.OutTradeNo, req.Token, req.Chain, req.Amount, req.ToAddress, req.CallbackURL,
	)
	if !h.verifySignature(c, merchant.WithdrawKeyEnc, payload) {
		return
	}
	dto.SanitizeStruct(&req)

	order, err := h.withdrawalSvc.CreateWithdrawal(c.Request.Context(), ports.CreateWithdrawalRequest{
		MerchantID:  merchant.ID,
		OutTradeNo:  req.OutTradeNo,
		Chain:       req.Chain,
		Token:       req.Token,
		Amount:      req.Amount,
		ToAddress:   req.ToAddress,
		CallbackURL: req.CallbackURL,
		ExtraData:   req.ExtraData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOrderResponse(order))
}

// GetOrder handles GET /api/v1/orders/:order_no. The order number alone
// does not say which side it belongs to, so the signature may be made with
// either the deposit or the withdraw key.
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	merchant, ok := merchantFromCtx(c)
	if !ok {
		return
	}

	orderNo := c.Param("order_no")
	payload := service.BuildQueryPayload(
		merchant.MerchantNo,
		c.GetInt64(middleware.CtxTimestamp),
		c.GetString(middleware.CtxNonce),
		orderNo,
	)
	ok, err := h.signatureMatches(c, merchant.DepositKeyEnc, payload)
	if err != nil {
		response.Error(c, apperror.ErrKeystoreFailure(err))
		return
	}
	if !ok {
		ok, err = h.signatureMatches(c, merchant.WithdrawKeyEnc, payload)
		if err != nil {
			response.Error(c, apperror.ErrKeystoreFailure(err))
			return
		}
	}
	if !ok {
		response.Error(c, apperror.ErrInvalidSignature())
		return
	}

	order, err := h.querySvc.GetByOrderNo(c.Request.Context(), merchant.ID, orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToOrderResponse(order))
}

// GetOrderByOutTradeNo handles GET /api/v1/orders/out-trade-no/:out_trade_no.
// The order kind is required as a query parameter because out_trade_no is
// only unique per merchant and kind. The kind is part of the signed payload
// and selects the verification key.
func (h *PaymentHandler) GetOrderByOutTradeNo(c *gin.Context) {
	merchant, ok := merchantFromCtx(c)
	if !ok {
		return
	}

	outTradeNo := c.Param("out_trade_no")
	kind := domain.OrderKind(c.Query("kind"))
	if kind != domain.OrderKindDeposit && kind != domain.OrderKindWithdrawal {
		response.Error(c, apperror.Validation("kind must be DEPOSIT or WITHDRAWAL"))
		return
	}

	payload := service.BuildOutTradeQueryPayload(
		merchant.MerchantNo,
		c.GetInt64(middleware.CtxTimestamp),
		c.GetString(middleware.CtxNonce),
		outTradeNo,
		string(kind),
	)
	keyEnc := merchant.DepositKeyEnc
	if kind == domain.OrderKindWithdrawal {
		keyEnc = merchant.WithdrawKeyEnc
	}
	if !h.verifySignature(c, keyEnc, payload) {
		return
	}

	order, err := h.querySvc.GetByOutTradeNo(c.Request.Context(), merchant.ID, outTradeNo, kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToOrderResponse(order))
}

// GetBalance handles GET /api/v1/balances/:token.
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	merchant, ok := merchantFromCtx(c)
	if !ok {
		return
	}

	token := c.Param("token")
	payload := service.BuildQueryPayload(
		merchant.MerchantNo,
		c.GetInt64(middleware.CtxTimestamp),
		c.GetString(middleware.CtxNonce),
		token,
	)
	if !h.verifySignature(c, merchant.DepositKeyEnc, payload) {
		return
	}

	balance, err := h.ledgerSvc.Balance(c.Request.Context(), merchant.ID, token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Token:   token,
		Balance: balance.String(),
	})
}
