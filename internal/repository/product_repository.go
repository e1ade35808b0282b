package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-catalog/internal/database"
	"product-catalog/internal/domain"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product already exists")
	ErrInsufficientStock    = errors.New("insufficient product quantity")
	ErrInvalidQuantity      = errors.New("quantity must not be negative")
)

const productColumns = `product_id, product_name, product_quantity, product_price, product_type,
	product_gender, product_description, picture_url, category`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	DecrementStock(ctx context.Context, id int64, amount int) (int, error)
}

type productRepository struct {
	gw *database.Gateway
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(gw *database.Gateway) ProductRepository {
	return &productRepository{gw: gw}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var pictureURL sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Quantity,
		&product.Price,
		&product.Type,
		&product.Gender,
		&product.Description,
		&pictureURL,
		&product.Category,
	)
	if err != nil {
		return nil, err
	}

	if pictureURL.Valid {
		product.PictureURL = &pictureURL.String
	}
	return product, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create inserts a product. A zero ID lets the store assign the key; the
// stored key is written back into product.ID.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	conn, err := r.gw.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	args := []interface{}{
		product.Name,
		product.Quantity,
		product.Price,
		product.Type,
		product.Gender,
		product.Description,
		nullString(product.PictureURL),
		product.Category,
	}

	query := `
		INSERT INTO products (product_name, product_quantity, product_price, product_type,
			product_gender, product_description, picture_url, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING product_id
	`
	if product.ID != 0 {
		query = `
			INSERT INTO products (product_id, product_name, product_quantity, product_price, product_type,
				product_gender, product_description, picture_url, category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING product_id
		`
		args = append([]interface{}{product.ID}, args...)
	}

	var id int64
	err = conn.QueryRowContext(ctx, r.gw.Rebind(query), args...).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.ID = id
	return nil
}

// Update overwrites every column except the key
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	conn, err := r.gw.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	query := `
		UPDATE products
		SET product_name = ?, product_quantity = ?, product_price = ?, product_type = ?,
		    product_gender = ?, product_description = ?, picture_url = ?, category = ?
		WHERE product_id = ?
	`

	result, err := conn.ExecContext(
		ctx,
		r.gw.Rebind(query),
		product.Name,
		product.Quantity,
		product.Price,
		product.Type,
		product.Gender,
		product.Description,
		nullString(product.PictureURL),
		product.Category,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.gw.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, r.gw.Rebind(`DELETE FROM products WHERE product_id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	conn, err := r.gw.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ?`

	product, err := scanProduct(conn.QueryRowContext(ctx, r.gw.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List returns every product ordered by ID
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	conn, err := r.gw.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// DecrementStock removes amount units in a single conditional statement and
// returns the remaining quantity. Concurrent callers can never drive the
// stored quantity below zero.
func (r *productRepository) DecrementStock(ctx context.Context, id int64, amount int) (int, error) {
	if amount < 0 {
		return 0, ErrInvalidQuantity
	}

	conn, err := r.gw.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	query := `
		UPDATE products
		SET product_quantity = product_quantity - ?
		WHERE product_id = ? AND product_quantity >= ?
		RETURNING product_quantity
	`

	var remaining int
	err = conn.QueryRowContext(ctx, r.gw.Rebind(query), amount, id, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// Nothing matched: either the row is missing or the stock is too low.
	var exists int
	err = conn.QueryRowContext(ctx, r.gw.Rebind(`SELECT 1 FROM products WHERE product_id = ?`), id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check product: %w", err)
	}

	return 0, ErrInsufficientStock
}
