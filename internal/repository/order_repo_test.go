package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var orderColumns = []string{"id", "owner_id", "total_amount", "customer_name", "customer_address", "payment_method", "payment_details", "status", "created_at"}
var itemColumns = []string{"order_id", "product_id", "name", "price", "quantity", "codes"}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "5f0c348a-2f16-4d9b-9c0e-6a1f3a6a0001",
		OwnerID:     "user-a",
		TotalAmount: 49.97,
		CustomerInfo: domain.CustomerInfo{
			Name:          "Ada Lovelace",
			Address:       "12 Analytical Way",
			PaymentMethod: domain.PaymentPayPal,
		},
		Status:    domain.StatusPending,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Items: []domain.OrderLineItem{
			{ProductID: "p-1", Name: "Space Raiders", Price: 19.99, Quantity: 1, Codes: []string{"AB12-CD34-EF56"}},
			{ProductID: "p-2", Name: "Dungeon Crawl", Price: 14.99, Quantity: 2, Codes: []string{"GH78-IJ90-KL12", "MN34-OP56-QR78"}},
		},
	}
}

func TestCreateOrder_CommitsOrderAndItemsTogether(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.ID, order.OwnerID, order.TotalAmount, "Ada Lovelace", "12 Analytical Way", "PayPal", nil, "Pending", order.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(`INSERT INTO order_items`)
	prep.ExpectExec().
		WithArgs(order.ID, 0, "p-1", "Space Raiders", 19.99, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(order.ID, 1, "p-2", "Dungeon Crawl", 14.99, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_RollsBackWhenItemInsertFails(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(`INSERT INTO order_items`)
	prep.ExpectExec().
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = repo.CreateOrder(context.Background(), order)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no commit may happen after a failed item insert")
}

func TestCreateOrder_RollsBackWhenOrderInsertFails(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = repo.CreateOrder(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_ScopesLookupToOwner(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())
	order := sampleOrder()

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(order.ID, "user-a").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(order.ID, order.OwnerID, order.TotalAmount, "Ada Lovelace", "12 Analytical Way", "PayPal", nil, "Pending", order.CreatedAt))
	mock.ExpectQuery(`(?s)SELECT .+ FROM order_items`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(order.ID, "p-1", "Space Raiders", 19.99, 1, "{AB12-CD34-EF56}"))

	got, err := repo.GetOrderByID(context.Background(), "user-a", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, domain.PaymentPayPal, got.CustomerInfo.PaymentMethod)
	require.Len(t, got.Items, 1)
	assert.Equal(t, []string{"AB12-CD34-EF56"}, got.Items[0].Codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_MissingAndForeignAreIdentical(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())
	order := sampleOrder()

	// Another user's order and a nonexistent order both come back as zero rows
	// because the owner is part of the predicate.
	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(order.ID, "user-b").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err = repo.GetOrderByID(context.Background(), "user-b", order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByOwner_NewestFirstWithItems(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+WHERE owner_id = \$1.+ORDER BY created_at DESC`).
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("id-3", "user-a", 10.0, "Ada", "Addr", "PayPal", nil, "Pending", t3).
			AddRow("id-2", "user-a", 20.0, "Ada", "Addr", "PayPal", nil, "Pending", t2).
			AddRow("id-1", "user-a", 30.0, "Ada", "Addr", "PayPal", nil, "Pending", t1))
	mock.ExpectQuery(`(?s)SELECT .+ FROM order_items`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("id-1", "p-1", "Space Raiders", 19.99, 2, "{AA11-BB22-CC33,DD44-EE55-FF66}").
			AddRow("id-3", "p-2", "Dungeon Crawl", 9.99, 1, "{GG77-HH88-II99}"))

	orders, err := repo.ListOrdersByOwner(context.Background(), "user-a", 0, 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, []string{orders[0].ID, orders[1].ID, orders[2].ID}, []string{"id-3", "id-2", "id-1"})
	assert.True(t, orders[0].CreatedAt.After(orders[1].CreatedAt))
	assert.True(t, orders[1].CreatedAt.After(orders[2].CreatedAt))

	assert.Equal(t, []string{"GG77-HH88-II99"}, orders[0].Items[0].Codes)
	assert.Empty(t, orders[1].Items)
	assert.Len(t, orders[2].Items[0].Codes, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByOwner_LimitAndOffsetAreBound(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+ORDER BY created_at DESC.+LIMIT \$2 OFFSET \$3`).
		WithArgs("user-a", 2, 1).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("id-2", "user-a", 20.0, "Ada", "Addr", "PayPal", nil, "Pending", t1.Add(time.Hour)).
			AddRow("id-1", "user-a", 30.0, "Ada", "Addr", "PayPal", nil, "Pending", t1))
	mock.ExpectQuery(`(?s)SELECT .+ FROM order_items`).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	orders, err := repo.ListOrdersByOwner(context.Background(), "user-a", 2, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "id-2", orders[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByOwner_OffsetWithoutLimit(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())

	// An offset on its own still skips rows; no LIMIT clause is emitted.
	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+ORDER BY created_at DESC.+OFFSET \$2`).
		WithArgs("user-a", 10).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.ListOrdersByOwner(context.Background(), "user-a", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_RejectsUnknownStatus(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())
	order := sampleOrder()

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(order.ID, "user-a").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow(order.ID, order.OwnerID, order.TotalAmount, "Ada Lovelace", "12 Analytical Way", "PayPal", nil, "Teleported", order.CreatedAt))

	_, err = repo.GetOrderByID(context.Background(), "user-a", order.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Contains(t, err.Error(), "Teleported")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByOwner_NoOrders(t *testing.T) {
	mockdb, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockdb.Close()

	repo := NewPostgresOrderRepository(mockdb, testLogger())

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders.+WHERE owner_id = \$1`).
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	orders, err := repo.ListOrdersByOwner(context.Background(), "user-a", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
