package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

type productUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUseCase(repo domain.ProductRepository, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo: repo,
		log:         logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var messages []string
	if product.Name == "" {
		messages = append(messages, "name: cannot be empty")
	}
	if product.Price < 0 {
		messages = append(messages, "price: cannot be negative")
	}
	if product.Stock < 0 {
		messages = append(messages, "stock: cannot be negative")
	}
	if len(messages) > 0 {
		return nil, &domain.ValidationError{Messages: messages}
	}

	product.ID = uuid.NewString()
	product.CreatedAt = time.Now().UTC()

	if err := uc.productRepo.CreateProduct(ctx, product); err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	uc.log.Infof("Use Case: Product %s created (%s)", product.ID, product.Name)
	return product, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrProductNotFound
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			uc.log.Errorf("Use Case: Repository failed to get product %s: %v", id, err)
		}
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	products, err := uc.productRepo.ListProducts(ctx, limit, offset)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	return products, nil
}
