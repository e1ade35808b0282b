package service

import (
	"context"
	"fmt"

	"product-catalog/internal/cart"
	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"go.uber.org/zap"
)

// PurchaseResult is the product state after a successful purchase
type PurchaseResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CatalogService defines the catalog operations exposed over HTTP
type CatalogService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Purchase(ctx context.Context, id int64, quantity int) (*PurchaseResult, error)
	Reserve(ctx context.Context, id int64, quantity int, userID int64) (*domain.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
	cart     cart.Reserver
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(products repository.ProductRepository, reserver cart.Reserver, logger *zap.Logger) CatalogService {
	return &catalogService{
		products: products,
		cart:     reserver,
		logger:   logger,
	}
}

func (s *catalogService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.Int64("product_id", product.ID))
	return product, nil
}

// Update overwrites the product stored under id; the body's own id is ignored.
func (s *catalogService) Update(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error) {
	product.ID = id
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product updated", zap.Int64("product_id", id))
	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// Purchase removes quantity units from stock.
func (s *catalogService) Purchase(ctx context.Context, id int64, quantity int) (*PurchaseResult, error) {
	if quantity < 0 {
		return nil, repository.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if quantity > product.Quantity {
		return nil, repository.ErrInsufficientStock
	}

	// The conditional decrement re-checks stock, so a concurrent purchase
	// between the read above and this write still cannot oversell.
	remaining, err := s.products.DecrementStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product purchased",
		zap.Int64("product_id", id),
		zap.Int("quantity", quantity),
		zap.Int("remaining", remaining),
	)

	return &PurchaseResult{ID: product.ID, Name: product.Name, Quantity: remaining}, nil
}

// Reserve forwards quantity units of the product into the user's cart.
// Stock is not touched; the returned product carries the stored quantity.
func (s *catalogService) Reserve(ctx context.Context, id int64, quantity int, userID int64) (*domain.Product, error) {
	if quantity < 0 {
		return nil, repository.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cart.ReserveItem(ctx, userID, domain.NewCartItem(product, quantity)); err != nil {
		return nil, fmt.Errorf("failed to reserve product %d: %w", id, err)
	}

	s.logger.Info("Product reserved",
		zap.Int64("product_id", id),
		zap.Int64("user_id", userID),
		zap.Int("quantity", quantity),
	)
	return product, nil
}
