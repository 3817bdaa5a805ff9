package ledger

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"salesledger/internal/logger"
	"salesledger/internal/storage"

	"go.uber.org/zap"
)

// exportDocument is the bulk dump format: all three collections in one
// JSON document, each shaped exactly like its collection file.
type exportDocument struct {
	Customers []customerRecord `json:"customers"`
	Products  []productRecord  `json:"products"`
	Orders    []orderRecord    `json:"orders"`
}

func (r *repository) ExportJSON(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := exportDocument{}
	if err := r.store.Load(ctx, storage.Customers, &doc.Customers); err != nil {
		return err
	}
	if err := r.store.Load(ctx, storage.Products, &doc.Products); err != nil {
		return err
	}
	if err := r.store.Load(ctx, storage.Orders, &doc.Orders); err != nil {
		return err
	}
	doc.Customers = nonNil(doc.Customers)
	doc.Products = nonNil(doc.Products)
	doc.Orders = nonNil(doc.Orders)

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	logger.FromCtx(ctx).Info("exported ledger to json",
		zap.String("path", path),
		zap.Int("customers", len(doc.Customers)),
		zap.Int("products", len(doc.Products)),
		zap.Int("orders", len(doc.Orders)),
	)
	return nil
}

// ImportJSON replaces all three collections with the document's
// contents. Last writer wins: nothing is merged and nothing is checked
// against the existing data, so an import can bring in ids that later
// add calls will reject as duplicates.
func (r *repository) ImportJSON(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode import: %w", err)
	}

	if err := r.store.Save(ctx, storage.Customers, nonNil(doc.Customers)); err != nil {
		return err
	}
	if err := r.store.Save(ctx, storage.Products, nonNil(doc.Products)); err != nil {
		return err
	}
	if err := r.store.Save(ctx, storage.Orders, nonNil(doc.Orders)); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("imported ledger from json",
		zap.String("path", path),
		zap.Int("customers", len(doc.Customers)),
		zap.Int("products", len(doc.Products)),
		zap.Int("orders", len(doc.Orders)),
	)
	return nil
}

// ExportCSV writes one tabular file per collection. Order line items do
// not fit a flat row, so orders.csv carries only the order head fields;
// the orders export is lossy and not meant to round-trip.
func (r *repository) ExportCSV(ctx context.Context, dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	var customers []customerRecord
	if err := r.store.Load(ctx, storage.Customers, &customers); err != nil {
		return err
	}
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			fmt.Sprint(c.CustomerID), c.Name, c.Email, c.Phone, c.Address,
		})
	}
	header := []string{"customer_id", "name", "email", "phone", "address"}
	if err := writeCSV(filepath.Join(dir, "customers.csv"), header, rows); err != nil {
		return err
	}

	var products []productRecord
	if err := r.store.Load(ctx, storage.Products, &products); err != nil {
		return err
	}
	rows = rows[:0]
	for _, p := range products {
		rows = append(rows, []string{
			fmt.Sprint(p.ProductID), p.Name, p.Price.String(), p.Category, fmt.Sprint(p.Stock),
		})
	}
	header = []string{"product_id", "name", "price", "category", "stock"}
	if err := writeCSV(filepath.Join(dir, "products.csv"), header, rows); err != nil {
		return err
	}

	var orders []orderRecord
	if err := r.store.Load(ctx, storage.Orders, &orders); err != nil {
		return err
	}
	rows = rows[:0]
	for _, o := range orders {
		rows = append(rows, []string{
			fmt.Sprint(o.OrderID), fmt.Sprint(o.CustomerID), o.Date, o.TotalAmount.String(),
		})
	}
	header = []string{"order_id", "customer_id", "date", "total_amount"}
	if err := writeCSV(filepath.Join(dir, "orders.csv"), header, rows); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("exported ledger to csv", zap.String("dir", dir))
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
