//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/prismaschema"
	"github.com/tordrt/prismaschema/internal/db"
	"github.com/tordrt/prismaschema/internal/schema"
)

const sqliteFixture = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY,
    username VARCHAR(50) NOT NULL UNIQUE,
    email TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE products (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT,
    price REAL NOT NULL
);

CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    total NUMERIC(10, 2)
);

CREATE TABLE order_items (
    order_id INTEGER NOT NULL REFERENCES orders(id),
    product_id INTEGER NOT NULL REFERENCES products(id),
    quantity INTEGER NOT NULL,
    PRIMARY KEY (order_id, product_id)
);
`

// createSQLite builds a fresh database file holding the fixture
func createSQLite(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create SQLite database: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(context.Background(), sqliteFixture); err != nil {
		t.Fatalf("Failed to load fixture: %v", err)
	}
	return path
}

func extractSQLite(t *testing.T, path string, tables []string) *schema.Schema {
	t.Helper()
	ctx := context.Background()

	client, err := db.NewSQLiteClient(ctx, path)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer client.Close()

	s, err := db.NewSQLiteExtractor(client).ExtractSchema(ctx, tables)
	if err != nil {
		t.Fatalf("Failed to extract schema: %v", err)
	}
	return s
}

func TestSQLiteExtraction(t *testing.T) {
	s := extractSQLite(t, createSQLite(t), nil)

	verifyTablesExist(t, s, []string{"users", "products", "orders", "order_items"})

	users := mustFindModel(t, s, "users")
	verifyPrimaryKey(t, users, []string{"id"})
	verifyFields(t, users, []string{"id", "username", "email", "status", "created_at"})
	verifyUniqueField(t, users, "username")
	verifyRelation(t, users, "orders", schema.OneToMany, "Order")

	items := mustFindModel(t, s, "order_items")
	verifyPrimaryKey(t, items, []string{"orderId", "productId"})
	verifyRelation(t, items, "order", schema.ManyToOne, "Order")
	verifyRelation(t, items, "product", schema.ManyToOne, "Product")

	generate(t, s, "sqlite",
		`provider = "sqlite"`,
		"model OrderItem {",
		"@@id([orderId, productId])",
		"DateTime?",
		"@default(dbgenerated())",
	)
}

func TestSQLiteSpecificTables(t *testing.T) {
	s := extractSQLite(t, createSQLite(t), []string{"users", "products"})

	verifyTablesExist(t, s, []string{"users", "products"})
	if findModel(s, "orders") != nil || findModel(s, "order_items") != nil {
		t.Error("Should not include orders or order_items tables")
	}
}

func TestSQLiteExtractAndGenerate(t *testing.T) {
	path := createSQLite(t)

	var buf bytes.Buffer
	err := prismaschema.ExtractAndGenerate(context.Background(), "sqlite://"+path,
		&prismaschema.Options{ExcludeTables: []string{"order_items"}},
		&prismaschema.OutputOptions{Writer: &buf},
	)
	if err != nil {
		t.Fatalf("ExtractAndGenerate failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `provider = "sqlite"`) {
		t.Error("Expected the provider to follow the database URL")
	}
	if strings.Contains(out, "OrderItem") {
		t.Errorf("Expected order_items and its relations to be excluded\n%s", out)
	}
}

func TestSQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	if _, err := db.NewSQLiteClient(context.Background(), path); err == nil {
		t.Fatal("Expected an error for a missing database file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no database file to be created")
	}
}
