package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var migrationDialects = []string{"sqlite3", "postgres"}

func TestMigrationFilesExist(t *testing.T) {
	for _, dialect := range migrationDialects {
		path := filepath.Join("migrations", dialect, "00001_create_products_table.sql")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", path)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	for _, dialect := range migrationDialects {
		dir := filepath.Join("migrations", dialect)

		files, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to read migrations directory %s: %v", dir, err)
		}

		sqlFileCount := 0
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
				continue
			}

			sqlFileCount++
			content, err := os.ReadFile(filepath.Join(dir, file.Name()))
			if err != nil {
				t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
				continue
			}

			contentStr := string(content)
			for _, directive := range []string{
				"-- +goose Up",
				"-- +goose Down",
				"-- +goose StatementBegin",
				"-- +goose StatementEnd",
			} {
				if !strings.Contains(contentStr, directive) {
					t.Errorf("Migration file %s/%s missing '%s' directive", dialect, file.Name(), directive)
				}
			}
		}

		if sqlFileCount == 0 {
			t.Errorf("No SQL migration files found for %s", dialect)
		}
	}
}

// Both dialects must expose the same named columns to the repository.
func TestProductsTableHasRequiredColumns(t *testing.T) {
	requiredColumns := []string{
		"product_id",
		"product_name TEXT NOT NULL",
		"product_quantity INTEGER NOT NULL",
		"product_price",
		"product_type TEXT NOT NULL",
		"product_gender TEXT NOT NULL",
		"product_description TEXT NOT NULL",
		"picture_url TEXT,",
		"category TEXT NOT NULL",
	}

	for _, dialect := range migrationDialects {
		path := filepath.Join("migrations", dialect, "00001_create_products_table.sql")
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read products migration: %v", err)
		}

		contentStr := string(content)
		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS products") {
			t.Errorf("%s migration does not create products", dialect)
		}
		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS products") {
			t.Errorf("%s migration does not drop products in down section", dialect)
		}
		if !strings.Contains(contentStr, "PRIMARY KEY") {
			t.Errorf("%s migration has no primary key", dialect)
		}

		for _, column := range requiredColumns {
			if !strings.Contains(contentStr, column) {
				t.Errorf("%s products table missing column definition: %s", dialect, column)
			}
		}
	}
}
