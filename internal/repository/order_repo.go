package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

// CreateOrder writes the order row and every line item (codes included) in a
// single transaction. Readers never observe an order without its codes.
func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Repository: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		}
	}()

	var paymentDetails []byte
	if order.PaymentDetails != nil {
		paymentDetails, err = json.Marshal(order.PaymentDetails)
		if err != nil {
			return fmt.Errorf("could not encode payment details: %w", err)
		}
	}

	orderQuery := `
        INSERT INTO orders (id, owner_id, total_amount, customer_name, customer_address, payment_method, payment_details, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID,
		order.OwnerID,
		order.TotalAmount,
		order.CustomerInfo.Name,
		order.CustomerInfo.Address,
		string(order.CustomerInfo.PaymentMethod),
		paymentDetails,
		string(order.Status),
		order.CreatedAt,
	)
	if err != nil {
		r.log.Errorf("Repository: Failed to insert order %s for user %s: %v", order.ID, order.OwnerID, err)
		return fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, position, product_id, name, price, quantity, codes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Repository: Failed to prepare order item statement: %v", err)
		return fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		_, err = stmt.ExecContext(ctx, order.ID, i, item.ProductID, item.Name, item.Price, item.Quantity, pq.Array(item.Codes))
		if err != nil {
			r.log.Errorf("Repository: Failed to insert order item (product %s) for order %s: %v", item.ProductID, order.ID, err)
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				return fmt.Errorf("invalid item data (product %s): %s", item.ProductID, pqErr.Message)
			}
			return fmt.Errorf("could not create order item (product %s): %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Repository: Failed to commit order %s: %v", order.ID, err)
		return fmt.Errorf("could not commit order: %w", err)
	}

	r.log.Infof("Repository: Order %s created with %d items for user %s", order.ID, len(order.Items), order.OwnerID)
	return nil
}

// GetOrderByID scopes the lookup to the owner inside the predicate, so an
// order owned by someone else is indistinguishable from one that does not
// exist.
func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, ownerID, orderID string) (*domain.Order, error) {
	orderQuery := `
        SELECT id, owner_id, total_amount, customer_name, customer_address, payment_method, payment_details, status, created_at
        FROM orders
        WHERE id = $1 AND owner_id = $2
    `
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, orderQuery, orderID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order %s not found for user %s", orderID, ownerID)
			return nil, domain.ErrOrderNotFound
		}
		r.log.Errorf("Repository: Failed to get order %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	itemsMap, err := r.fetchItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsMap[order.ID]

	return order, nil
}

// ListOrdersByOwner returns the owner's orders newest-first. The descending
// created_at sort is done by the store against an index, not in memory.
// limit <= 0 means no limit; offset > 0 skips from the newest end.
func (r *postgresOrderRepository) ListOrdersByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Order, error) {
	ordersQuery := `
        SELECT id, owner_id, total_amount, customer_name, customer_address, payment_method, payment_details, status, created_at
        FROM orders
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `
	args := []interface{}{ownerID}
	if limit > 0 {
		args = append(args, limit)
		ordersQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		ordersQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, ordersQuery, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders for user %s: %v", ownerID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var orderIDs []string
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order row for user %s: %v", ownerID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, *order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	itemsMap, err := r.fetchItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderLineItem{}
		}
	}

	r.log.Infof("Repository: Retrieved %d orders for user %s", len(orders), ownerID)
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresOrderRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var paymentMethod, status string
	var paymentDetails []byte

	err := row.Scan(
		&order.ID,
		&order.OwnerID,
		&order.TotalAmount,
		&order.CustomerInfo.Name,
		&order.CustomerInfo.Address,
		&paymentMethod,
		&paymentDetails,
		&status,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.CustomerInfo.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.Status = domain.OrderStatus(status)
	if !domain.IsValidStatus(order.Status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	if len(paymentDetails) > 0 {
		if err := json.Unmarshal(paymentDetails, &order.PaymentDetails); err != nil {
			return nil, fmt.Errorf("could not decode payment details: %w", err)
		}
	}
	return order, nil
}

// fetchItems loads line items for a batch of orders in one query.
func (r *postgresOrderRepository) fetchItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderLineItem, error) {
	itemsQuery := `
        SELECT order_id, product_id, name, price, quantity, codes
        FROM order_items
        WHERE order_id = ANY($1)
        ORDER BY order_id, position
    `
	rows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	itemsMap := make(map[string][]domain.OrderLineItem)
	for rows.Next() {
		var item domain.OrderLineItem
		var orderID string
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, pq.Array(&item.Codes)); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row: %v", err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return itemsMap, nil
}
