package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/redeem"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo domain.OrderRepository
	codes     *redeem.Generator
	log       *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, codes *redeem.Generator, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		codes:     codes,
		log:       logger,
	}
}

// validateCreateRequest checks every precondition before any code is generated
// or anything is written. One message per violated field.
func validateCreateRequest(req domain.CreateOrderRequest) *domain.ValidationError {
	var messages []string

	if len(req.Items) == 0 {
		messages = append(messages, "items: order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.Quantity < 1 {
			messages = append(messages, fmt.Sprintf("items[%d].quantity: must be at least 1", i))
		}
		if item.Price < 0 {
			messages = append(messages, fmt.Sprintf("items[%d].price: cannot be negative", i))
		}
	}
	if req.TotalAmount < 0 {
		messages = append(messages, "totalAmount: cannot be negative")
	}
	if req.CustomerInfo.Name == "" {
		messages = append(messages, "customerInfo.name: cannot be empty")
	}
	if req.CustomerInfo.Address == "" {
		messages = append(messages, "customerInfo.address: cannot be empty")
	}
	if !domain.IsValidPaymentMethod(req.CustomerInfo.PaymentMethod) {
		messages = append(messages, fmt.Sprintf("customerInfo.paymentMethod: '%s' is not a supported payment method", req.CustomerInfo.PaymentMethod))
	}

	if len(messages) > 0 {
		return &domain.ValidationError{Messages: messages}
	}
	return nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, ownerID string, req domain.CreateOrderRequest) (*domain.Order, error) {
	if vErr := validateCreateRequest(req); vErr != nil {
		uc.log.Warnf("Use Case: Rejected order for user %s: %v", ownerID, vErr)
		return nil, vErr
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Items:          make([]domain.OrderLineItem, 0, len(req.Items)),
		TotalAmount:    req.TotalAmount,
		CustomerInfo:   req.CustomerInfo,
		PaymentDetails: req.PaymentDetails,
		Status:         domain.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	// One code per purchased unit, unique across the whole order.
	seen := make(map[string]struct{})
	for _, item := range req.Items {
		codes, err := uc.codes.Codes(item.Quantity, seen)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to generate redemption codes for user %s: %v", ownerID, err)
			return nil, fmt.Errorf("could not generate redemption codes: %w", err)
		}
		order.Items = append(order.Items, domain.OrderLineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Codes:     codes,
		})
	}

	// Single transactional write: either the full order with every code lands,
	// or nothing does.
	if err := uc.orderRepo.CreateOrder(ctx, order); err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order %s for user %s: %v", order.ID, ownerID, err)
		return nil, fmt.Errorf("could not save order: %w", err)
	}

	uc.log.Infof("Use Case: Order %s created for user %s with %d items", order.ID, ownerID, len(order.Items))
	return order, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, ownerID, orderID string) (*domain.Order, error) {
	// A malformed id can never match an order; report it exactly like an
	// unknown id so callers cannot probe for existence.
	if _, err := uuid.Parse(orderID); err != nil {
		uc.log.Warnf("Use Case: Malformed order id '%s' requested by user %s", orderID, ownerID)
		return nil, domain.ErrOrderNotFound
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *orderUseCase) ListOrdersForUser(ctx context.Context, ownerID string, limit, offset int) ([]domain.Order, error) {
	if offset < 0 {
		offset = 0
	}

	orders, err := uc.orderRepo.ListOrdersByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for user %s: %v", ownerID, err)
		return nil, fmt.Errorf("could not retrieve orders for user: %w", err)
	}

	uc.log.Infof("Use Case: Retrieved %d orders for user %s", len(orders), ownerID)
	return orders, nil
}
