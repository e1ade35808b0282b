package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"product-catalog/internal/database"
	"product-catalog/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func newMockRepository(t *testing.T) (ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gw := database.New(db, database.DriverPostgres, zap.NewNop())
	return NewProductRepository(gw), mock
}

func TestCreate_PostgresUniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (product_id,`)).
		WithArgs(int64(7), "Shirt", 10, 19.99, "apparel", "unisex", "Plain tee", sqlmock.AnyArg(), "tops").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), sampleProduct(7))
	if !errors.Is(err, ErrProductAlreadyExists) {
		t.Fatalf("expected ErrProductAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_StoreAssignedID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(int64(42)))

	product := sampleProduct(0)
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if product.ID != 42 {
		t.Fatalf("expected assigned ID 42, got %d", product.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_SingleConditionalStatement(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SET product_quantity = product_quantity - $1
		WHERE product_id = $2 AND product_quantity >= $3
		RETURNING product_quantity`)).
		WithArgs(4, int64(1), 4).
		WillReturnRows(sqlmock.NewRows([]string{"product_quantity"}).AddRow(6))

	remaining, err := repo.DecrementStock(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if remaining != 6 {
		t.Fatalf("expected 6 remaining, got %d", remaining)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_InsufficientLeavesRowAlone(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`RETURNING product_quantity`)).
		WithArgs(10, int64(1), 10).
		WillReturnRows(sqlmock.NewRows([]string{"product_quantity"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM products WHERE product_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	_, err := repo.DecrementStock(context.Background(), 1, 10)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByID_WrapsDriverErrors(t *testing.T) {
	repo, mock := newMockRepository(t)

	driverErr := errors.New("relation \"products\" does not exist")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE product_id = $1`)).
		WithArgs(int64(3)).
		WillReturnError(driverErr)

	_, err := repo.FindByID(context.Background(), 3)
	if !errors.Is(err, driverErr) || errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestOperationsFailFastWithoutConnection(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	db.Close()

	repo := NewProductRepository(database.New(db, database.DriverSQLite, zap.NewNop()))
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["FindByID"] = repo.FindByID(ctx, 1)
	_, checks["List"] = repo.List(ctx)
	checks["Create"] = repo.Create(ctx, &domain.Product{ID: 1})
	checks["Update"] = repo.Update(ctx, &domain.Product{ID: 1})
	checks["Delete"] = repo.Delete(ctx, 1)
	_, checks["DecrementStock"] = repo.DecrementStock(ctx, 1, 1)

	for op, err := range checks {
		if !errors.Is(err, database.ErrConnection) {
			t.Errorf("%s: expected ErrConnection, got %v", op, err)
		}
	}
}
