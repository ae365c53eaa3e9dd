package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CallbackPayload is the JSON body posted to the merchant callback URL.
// Timestamp is unix milliseconds, like the payment API headers.
type CallbackPayload struct {
	MerchantNo    string `json:"merchant_no"`
	OrderNo       string `json:"order_no"`
	OutTradeNo    string `json:"out_trade_no"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	Chain         string `json:"chain"`
	Token         string `json:"token"`
	Amount        string `json:"amount"`
	SettledAmount string `json:"settled_amount"`
	Fee           string `json:"fee"`
	NetAmount     string `json:"net_amount"`
	WalletAddress string `json:"wallet_address"`
	Confirmations int64  `json:"confirmations"`
	TxHash        string `json:"tx_hash,omitempty"`
	FailReason    string `json:"fail_reason,omitempty"`
	CompletedAt   string `json:"completed_at,omitempty"`
	ExtraData     string `json:"extra_data,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// WebhookDispatcherImpl implements ports.WebhookDispatcher. Deliveries are
// persisted before the first attempt, so a crash between state change and
// notification re-delivers rather than drops: at least once.
type WebhookDispatcherImpl struct {
	webhookRepo  ports.WebhookRepository
	merchantRepo ports.MerchantRepository
	keystore     ports.Keystore
	sigSvc       ports.SignatureService
	httpClient   HTTPClient
	log          zerolog.Logger
}

// NewWebhookDispatcher creates a new WebhookDispatcherImpl.
func NewWebhookDispatcher(
	webhookRepo ports.WebhookRepository,
	merchantRepo ports.MerchantRepository,
	keystore ports.Keystore,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *WebhookDispatcherImpl {
	return &WebhookDispatcherImpl{
		webhookRepo:  webhookRepo,
		merchantRepo: merchantRepo,
		keystore:     keystore,
		sigSvc:       sigSvc,
		httpClient:   httpClient,
		log:          log,
	}
}

// Enqueue persists a signed delivery for the order's current state. The
// delivery becomes due immediately.
func (s *WebhookDispatcherImpl) Enqueue(ctx context.Context, order *domain.Order) error {
	delivery, err := s.buildDelivery(ctx, order)
	if err != nil || delivery == nil {
		return err
	}
	if err := s.webhookRepo.Create(ctx, delivery); err != nil {
		return apperror.InternalError(fmt.Errorf("create delivery: %w", err))
	}

	s.log.Info().
		Str("order_no", order.OrderNo).
		Str("delivery_id", delivery.ID.String()).
		Msg("webhook enqueued")
	return nil
}

// EnqueueTx persists the delivery inside the caller's transaction, so a
// terminal order transition and its notification commit or roll back as
// one unit.
func (s *WebhookDispatcherImpl) EnqueueTx(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	delivery, err := s.buildDelivery(ctx, order)
	if err != nil || delivery == nil {
		return err
	}
	if err := s.webhookRepo.CreateTx(ctx, tx, delivery); err != nil {
		return apperror.InternalError(fmt.Errorf("create delivery: %w", err))
	}

	s.log.Info().
		Str("order_no", order.OrderNo).
		Str("delivery_id", delivery.ID.String()).
		Msg("webhook enqueued")
	return nil
}

// buildDelivery assembles and signs the callback body. Orders without a
// callback URL produce no delivery.
func (s *WebhookDispatcherImpl) buildDelivery(ctx context.Context, order *domain.Order) (*domain.WebhookDelivery, error) {
	if order.CallbackURL == "" {
		return nil, nil
	}

	merchant, err := s.merchantRepo.GetByID(ctx, order.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}

	payload := CallbackPayload{
		MerchantNo:    merchant.MerchantNo,
		OrderNo:       order.OrderNo,
		OutTradeNo:    order.OutTradeNo,
		Kind:          string(order.Kind),
		Status:        string(order.Status),
		Chain:         order.Chain,
		Token:         order.Token,
		Amount:        order.RequestedAmount.String(),
		SettledAmount: order.SettledAmount.String(),
		Fee:           order.Fee.String(),
		NetAmount:     order.NetAmount.String(),
		WalletAddress: order.WalletAddress,
		Confirmations: order.Confirmations,
		Timestamp:     time.Now().UnixMilli(),
	}
	if order.TxHash != nil {
		payload.TxHash = *order.TxHash
	}
	if order.FailReason != nil {
		payload.FailReason = *order.FailReason
	}
	if order.CompletedAt != nil {
		payload.CompletedAt = order.CompletedAt.Format(time.RFC3339)
	}
	if order.ExtraData != nil {
		payload.ExtraData = *order.ExtraData
	}

	secretKey, err := s.callbackKey(merchant, order.Kind)
	if err != nil {
		return nil, apperror.ErrKeystoreFailure(err)
	}
	signature := s.sigSvc.Sign(secretKey, BuildCallbackPayload(
		merchant.MerchantNo, order.OrderNo, string(order.Status), order.SettledAmount.String(),
	))

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal payload: %w", err))
	}

	now := time.Now().UTC()
	return &domain.WebhookDelivery{
		ID:         uuid.New(),
		OrderID:    order.ID,
		MerchantID: order.MerchantID,
		URL:        order.CallbackURL,
		Payload:    string(body),
		Signature:  signature,
		Attempt:    0,
		Status:     domain.WebhookStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Resend resets a permanently failed delivery for another attempt.
func (s *WebhookDispatcherImpl) Resend(ctx context.Context, deliveryID uuid.UUID) error {
	delivery, err := s.webhookRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get delivery: %w", err))
	}
	if delivery == nil {
		return apperror.ErrNotFound("webhook delivery")
	}

	delivery.Status = domain.WebhookStatusPending
	delivery.Attempt = 0
	delivery.NextRetryAt = nil
	if err := s.webhookRepo.Update(ctx, delivery); err != nil {
		return apperror.InternalError(fmt.Errorf("reset delivery: %w", err))
	}
	return nil
}

// DispatchDue attempts every due delivery once, returning how many were
// delivered. Failures advance along the fixed backoff schedule and turn
// FAILED past its end.
func (s *WebhookDispatcherImpl) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.webhookRepo.ListDue(ctx, now, 50)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("list due deliveries: %w", err))
	}

	delivered := 0
	for i := range due {
		if s.deliverOne(ctx, &due[i], now) {
			delivered++
		}
	}
	return delivered, nil
}

func (s *WebhookDispatcherImpl) deliverOne(ctx context.Context, delivery *domain.WebhookDelivery, now time.Time) bool {
	status, err := s.attempt(ctx, delivery)
	delivery.Attempt++
	delivery.LastHTTP = nil
	delivery.LastError = nil
	if status != 0 {
		delivery.LastHTTP = &status
	}
	if err != nil {
		msg := err.Error()
		delivery.LastError = &msg
	}

	success := err == nil && status >= 200 && status < 300
	if success {
		delivery.Status = domain.WebhookStatusDelivered
		delivery.NextRetryAt = nil
	} else if delivery.Attempt > len(domain.WebhookRetrySchedule) {
		delivery.Status = domain.WebhookStatusFailed
		delivery.NextRetryAt = nil
		s.log.Error().
			Str("delivery_id", delivery.ID.String()).
			Int("attempts", delivery.Attempt).
			Msg("webhook retries exhausted")
	} else {
		next := now.Add(domain.WebhookRetrySchedule[delivery.Attempt-1])
		delivery.NextRetryAt = &next
	}

	if err := s.webhookRepo.Update(ctx, delivery); err != nil {
		s.log.Error().Err(err).Str("delivery_id", delivery.ID.String()).Msg("failed to update delivery")
		return false
	}
	return success
}

func (s *WebhookDispatcherImpl) attempt(ctx context.Context, delivery *domain.WebhookDelivery) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.URL, bytes.NewReader([]byte(delivery.Payload)))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", delivery.Signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// callbackKey picks the merchant secret matching the order kind, so a
// deposit callback verifies against the deposit key and a withdrawal
// callback against the withdraw key.
func (s *WebhookDispatcherImpl) callbackKey(merchant *domain.Merchant, kind domain.OrderKind) (string, error) {
	enc := merchant.DepositKeyEnc
	if kind == domain.OrderKindWithdrawal {
		enc = merchant.WithdrawKeyEnc
	}
	return s.keystore.DecryptString(enc)
}
