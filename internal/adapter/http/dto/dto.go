package dto

import (
	"time"

	"crypto-settlement-gateway/internal/core/domain"
)

// CreateDepositRequest is the request body for deposit order creation.
type CreateDepositRequest struct {
	OutTradeNo  string  `json:"out_trade_no" binding:"required,max=64,safe_id"`
	Chain       string  `json:"chain" binding:"required,max=32"`
	Token       string  `json:"token" binding:"required,max=16"`
	Amount      string  `json:"amount" binding:"required,max=40"`
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
	CallbackURL string  `json:"callback_url" binding:"omitempty,max=512,safe_url"`
	ExtraData   *string `json:"extra_data,omitempty" binding:"omitempty,max=1024"`
}

// CreateWithdrawalRequest is the request body for withdrawal order creation.
type CreateWithdrawalRequest struct {
	OutTradeNo  string  `json:"out_trade_no" binding:"required,max=64,safe_id"`
	Chain       string  `json:"chain" binding:"required,max=32"`
	Token       string  `json:"token" binding:"required,max=16"`
	Amount      string  `json:"amount" binding:"required,max=40"`
	ToAddress   string  `json:"to_address" binding:"required,max=128"`
	CallbackURL string  `json:"callback_url" binding:"omitempty,max=512,safe_url"`
	ExtraData   *string `json:"extra_data,omitempty" binding:"omitempty,max=1024"`
}

// DepositResponse is returned on successful deposit creation. PayAmount is
// the exact unique amount the payer must transfer.
type DepositResponse struct {
	OrderNo       string `json:"order_no"`
	OutTradeNo    string `json:"out_trade_no"`
	Chain         string `json:"chain"`
	Token         string `json:"token"`
	WalletAddress string `json:"wallet_address"`
	PayAmount     string `json:"pay_amount"`
	Status        string `json:"status"`
	ExpiresAt     string `json:"expires_at"`
}

// OrderResponse is the common representation of an order for queries and
// withdrawal creation.
type OrderResponse struct {
	OrderNo         string  `json:"order_no"`
	OutTradeNo      string  `json:"out_trade_no"`
	Kind            string  `json:"kind"`
	Chain           string  `json:"chain"`
	Token           string  `json:"token"`
	RequestedAmount string  `json:"requested_amount"`
	SettledAmount   string  `json:"settled_amount"`
	Fee             string  `json:"fee"`
	NetAmount       string  `json:"net_amount"`
	Status          string  `json:"status"`
	WalletAddress   string  `json:"wallet_address"`
	TxHash          *string `json:"tx_hash,omitempty"`
	Confirmations   int64   `json:"confirmations"`
	RequiredConfs   int64   `json:"required_confirmations"`
	FailReason      *string `json:"fail_reason,omitempty"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	DetectedAt      *string `json:"detected_at,omitempty"`
	CompletedAt     *string `json:"completed_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// BalanceResponse is the response for a merchant balance query.
type BalanceResponse struct {
	Token   string `json:"token"`
	Balance string `json:"balance"`
}

// AdminLoginRequest is the request body for operator login. The TOTP code
// is the operator's second factor; privileged actions never rest on the
// password alone.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	TOTPCode string `json:"totp_code" binding:"required,len=6,numeric"`
}

// AdminLoginResponse is the response body for successful operator login.
type AdminLoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// ForceCompleteResponse acknowledges a manual completion.
type ForceCompleteResponse struct {
	OrderNo  string `json:"order_no"`
	Operator string `json:"operator"`
}

// ResendWebhookResponse acknowledges a webhook redelivery request.
type ResendWebhookResponse struct {
	DeliveryID string `json:"delivery_id"`
}

// ToOrderResponse converts a domain order to its API representation.
func ToOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		OrderNo:       o.OrderNo,
		OutTradeNo:    o.OutTradeNo,
		Kind:          string(o.Kind),
		Chain:         o.Chain,
		Token:         o.Token,
		Status:        string(o.Status),
		WalletAddress: o.WalletAddress,
		TxHash:        o.TxHash,
		Confirmations: o.Confirmations,
		RequiredConfs: o.RequiredConfs,
		FailReason:    o.FailReason,
		ExpiresAt:     formatTimePtr(o.ExpiresAt),
		DetectedAt:    formatTimePtr(o.DetectedAt),
		CompletedAt:   formatTimePtr(o.CompletedAt),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.RequestedAmount != nil {
		resp.RequestedAmount = o.RequestedAmount.String()
	}
	if o.SettledAmount != nil {
		resp.SettledAmount = o.SettledAmount.String()
	}
	if o.Fee != nil {
		resp.Fee = o.Fee.String()
	}
	if o.NetAmount != nil {
		resp.NetAmount = o.NetAmount.String()
	}
	return resp
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
