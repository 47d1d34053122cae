package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "CreditCard"
	PaymentDebitCard      PaymentMethod = "DebitCard"
	PaymentPayPal         PaymentMethod = "PayPal"
	PaymentCashOnDelivery PaymentMethod = "CashOnDelivery"
)

var ErrOrderNotFound = errors.New("order not found")

type CustomerInfo struct {
	Name          string        `json:"name"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// OrderLineItem is a snapshot of one purchased product. Codes carries one
// redemption code per purchased unit, so len(Codes) == Quantity always holds
// for a persisted order.
type OrderLineItem struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Codes     []string `json:"codes"`
}

// Order is immutable once created: there is no endpoint that mutates items,
// codes or status after the initial insert.
type Order struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"ownerId"`
	Items          []OrderLineItem        `json:"items"`
	TotalAmount    float64                `json:"totalAmount"`
	CustomerInfo   CustomerInfo           `json:"customerInfo"`
	PaymentDetails map[string]interface{} `json:"paymentDetails,omitempty"`
	Status         OrderStatus            `json:"status"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type LineItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type CreateOrderRequest struct {
	Items          []LineItemRequest      `json:"items"`
	TotalAmount    float64                `json:"totalAmount"`
	CustomerInfo   CustomerInfo           `json:"customerInfo"`
	PaymentDetails map[string]interface{} `json:"paymentDetails,omitempty"`
}

// ValidationError collects one message per violated field. It is a client
// error and must never reach the repository layer.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func IsValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	default:
		return false
	}
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, ownerID, orderID string) (*Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Order, error)
}

type OrderUseCase interface {
	CreateOrder(ctx context.Context, ownerID string, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, ownerID, orderID string) (*Order, error)
	ListOrdersForUser(ctx context.Context, ownerID string, limit, offset int) ([]Order, error)
}
