package ledger

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"salesledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLedger(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	customer := mustCustomer(t, 1, "Ivan")
	phone := mustProduct(t, 1, "Phone", 10000, 10)
	book := mustProduct(t, 3, "Book", 500, 20)
	require.NoError(t, repo.AddCustomer(ctx, customer))
	require.NoError(t, repo.AddProduct(ctx, phone))
	require.NoError(t, repo.AddProduct(ctx, book))

	order := model.NewOrder(1, customer, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	order.AddItem(mustItem(t, phone, 2))
	order.AddItem(mustItem(t, book, 1))
	require.NoError(t, repo.AddOrder(ctx, order))
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t)
	seedLedger(t, repo)

	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, repo.ExportJSON(ctx, path))

	// Import into an empty ledger reproduces everything.
	repo2, _, _ := newTestRepo(t)
	require.NoError(t, repo2.ImportJSON(ctx, path))

	customers, err := repo2.GetAllCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ivan", customers[0].Name)

	products, err := repo2.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 8, products[0].Stock, "stock after the seeded order survives the round trip")

	order, err := repo2.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount().Equal(decimal.NewFromInt(20500)))
}

func TestImportJSONReplacesEverything(t *testing.T) {
	ctx := context.Background()

	// Source ledger with one customer, target with another.
	source, _, _ := newTestRepo(t)
	require.NoError(t, source.AddCustomer(ctx, mustCustomer(t, 1, "Ivan")))
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, source.ExportJSON(ctx, path))

	target, _, _ := newTestRepo(t)
	require.NoError(t, target.AddCustomer(ctx, mustCustomer(t, 2, "Petr")))
	require.NoError(t, target.AddProduct(ctx, mustProduct(t, 9, "Gone", 1, 1)))

	require.NoError(t, target.ImportJSON(ctx, path))

	customers, err := target.GetAllCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1, "import is a full replace, not a merge")
	assert.Equal(t, "Ivan", customers[0].Name)

	products, err := target.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestImportJSONErrors(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t)

	t.Run("MissingFile", func(t *testing.T) {
		err := repo.ImportJSON(ctx, filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("BadDocument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
		err := repo.ImportJSON(ctx, path)
		assert.Error(t, err)
	})
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newTestRepo(t)
	seedLedger(t, repo)

	dir := filepath.Join(t.TempDir(), "exports")
	require.NoError(t, repo.ExportCSV(ctx, dir))

	readCSV := func(name string) [][]string {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	t.Run("Customers", func(t *testing.T) {
		rows := readCSV("customers.csv")
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"customer_id", "name", "email", "phone", "address"}, rows[0])
		assert.Equal(t, "1", rows[1][0])
		assert.Equal(t, "Ivan", rows[1][1])
	})

	t.Run("Products", func(t *testing.T) {
		rows := readCSV("products.csv")
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"product_id", "name", "price", "category", "stock"}, rows[0])
		assert.Equal(t, "10000", rows[1][2])
		assert.Equal(t, "8", rows[1][4])
	})

	t.Run("OrdersAreFlattened", func(t *testing.T) {
		rows := readCSV("orders.csv")
		require.Len(t, rows, 2)
		// Line items do not fit a flat row; only the order head fields
		// are exported.
		assert.Equal(t, []string{"order_id", "customer_id", "date", "total_amount"}, rows[0])
		assert.Equal(t, "1", rows[1][0])
		assert.Equal(t, "1", rows[1][1])
		assert.Equal(t, "20500", rows[1][3])
	})
}
