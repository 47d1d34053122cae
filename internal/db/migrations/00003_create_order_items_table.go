package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrderItemsTable, DownOrderItemsTable)
}

func UpOrderItemsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE order_items
(
    order_id UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    position INT NOT NULL,
    product_id TEXT NOT NULL,
    name TEXT NOT NULL,
    price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
    quantity INT NOT NULL CHECK (quantity >= 1),
    codes TEXT[] NOT NULL CHECK (cardinality(codes) = quantity),
    PRIMARY KEY (order_id, position)
);`)
	return err
}

func DownOrderItemsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE order_items;")
	return err
}
