package service

import (
	"context"
	"fmt"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
)

// OrderQueryServiceImpl implements ports.OrderQueryService.
type OrderQueryServiceImpl struct {
	orderRepo ports.OrderRepository
}

// NewOrderQueryService creates a new OrderQueryServiceImpl.
func NewOrderQueryService(orderRepo ports.OrderRepository) *OrderQueryServiceImpl {
	return &OrderQueryServiceImpl{orderRepo: orderRepo}
}

// GetByOrderNo fetches one order by system order number.
func (s *OrderQueryServiceImpl) GetByOrderNo(ctx context.Context, merchantID uuid.UUID, orderNo string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, merchantID, orderNo)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}
	return order, nil
}

// GetByOutTradeNo fetches one order by the merchant's own reference.
func (s *OrderQueryServiceImpl) GetByOutTradeNo(ctx context.Context, merchantID uuid.UUID, outTradeNo string, kind domain.OrderKind) (*domain.Order, error) {
	order, err := s.orderRepo.GetByOutTradeNo(ctx, merchantID, outTradeNo, kind)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}
	return order, nil
}
