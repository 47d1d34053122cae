package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `
        INSERT INTO products (id, name, description, price, image_url, stock, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.Stock,
		product.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return fmt.Errorf("could not create product: %w", err)
	}

	r.log.Infof("Repository: Product created with ID %s (%s)", product.ID, product.Name)
	return nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
        SELECT id, name, description, price, image_url, stock, created_at
        FROM products
        WHERE id = $1
    `
	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.Stock,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product %s not found", id)
			return nil, domain.ErrProductNotFound
		}
		r.log.Errorf("Repository: Failed to get product %s: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	return product, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	query := `
        SELECT id, name, description, price, image_url, stock, created_at
        FROM products
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.ImageURL,
			&product.Stock,
			&product.CreatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
