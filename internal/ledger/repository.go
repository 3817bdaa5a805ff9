// Package ledger is the typed CRUD layer over the record store. It
// enforces id uniqueness, resolves the foreign keys between orders,
// customers and products, and applies the stock side effect of placing
// an order.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"salesledger/internal/logger"
	"salesledger/internal/model"
	"salesledger/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	AddCustomer(ctx context.Context, c *model.Customer) error
	GetCustomer(ctx context.Context, id int) (*model.Customer, error)
	GetAllCustomers(ctx context.Context) ([]*model.Customer, error)

	AddProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]*model.Product, error)
	UpdateProductStock(ctx context.Context, id, delta int) error

	AddOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id int) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]*model.Order, error)

	ExportJSON(ctx context.Context, path string) error
	ImportJSON(ctx context.Context, path string) error
	ExportCSV(ctx context.Context, dir string) error
}

// repository serializes all store access with one mutex: the on-disk
// model is single-writer whole-collection swap, so in-process callers
// must not interleave.
type repository struct {
	mu    sync.Mutex
	store *storage.Store
}

func NewRepository(ctx context.Context, store *storage.Store) (Repository, error) {
	r := &repository{store: store}
	if err := r.replayPending(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// replayPending finishes an order commit interrupted between the two
// collection writes. The journal entry holds both staged collections,
// so re-applying it is idempotent.
func (r *repository) replayPending(ctx context.Context) error {
	entry, pending, err := r.store.PendingCommit(ctx)
	if err != nil || !pending {
		return err
	}

	logger.FromCtx(ctx).Warn("replaying interrupted order commit",
		zap.String("journal_id", entry.ID),
		zap.Int("order_id", entry.OrderID),
	)
	return r.store.CommitStaged(ctx, *entry)
}

func (r *repository) AddCustomer(ctx context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := logger.FromCtx(ctx).With(zap.String("layer", "ledger"), zap.Int("customer_id", c.ID))

	var records []customerRecord
	if err := r.store.Load(ctx, storage.Customers, &records); err != nil {
		return err
	}
	for _, rec := range records {
		if rec.CustomerID == c.ID {
			log.Warn("duplicate customer id")
			return fmt.Errorf("customer %d: %w", c.ID, ErrDuplicateKey)
		}
	}

	records = append(records, toCustomerRecord(c))
	if err := r.store.Save(ctx, storage.Customers, records); err != nil {
		return err
	}
	log.Info("customer added", zap.String("name", c.Name))
	return nil
}

func (r *repository) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []customerRecord
	if err := r.store.Load(ctx, storage.Customers, &records); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.CustomerID == id {
			return customerFromRecord(rec), nil
		}
	}
	return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
}

func (r *repository) GetAllCustomers(ctx context.Context) ([]*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []customerRecord
	if err := r.store.Load(ctx, storage.Customers, &records); err != nil {
		return nil, err
	}
	customers := make([]*model.Customer, 0, len(records))
	for _, rec := range records {
		customers = append(customers, customerFromRecord(rec))
	}
	return customers, nil
}

func (r *repository) AddProduct(ctx context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := logger.FromCtx(ctx).With(zap.String("layer", "ledger"), zap.Int("product_id", p.ID))

	var records []productRecord
	if err := r.store.Load(ctx, storage.Products, &records); err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ProductID == p.ID {
			log.Warn("duplicate product id")
			return fmt.Errorf("product %d: %w", p.ID, ErrDuplicateKey)
		}
	}

	records = append(records, toProductRecord(p))
	if err := r.store.Save(ctx, storage.Products, records); err != nil {
		return err
	}
	log.Info("product added", zap.String("name", p.Name), zap.Int("stock", p.Stock))
	return nil
}

func (r *repository) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []productRecord
	if err := r.store.Load(ctx, storage.Products, &records); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ProductID == id {
			return productFromRecord(rec), nil
		}
	}
	return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
}

func (r *repository) GetAllProducts(ctx context.Context) ([]*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []productRecord
	if err := r.store.Load(ctx, storage.Products, &records); err != nil {
		return nil, err
	}
	products := make([]*model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

// UpdateProductStock applies a delta to a product's stock level,
// clamping at zero. An unknown id is a no-op.
func (r *repository) UpdateProductStock(ctx context.Context, id, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []productRecord
	if err := r.store.Load(ctx, storage.Products, &records); err != nil {
		return err
	}

	for i := range records {
		if records[i].ProductID == id {
			records[i].Stock += delta
			if records[i].Stock < 0 {
				records[i].Stock = 0
			}
			break
		}
	}
	return r.store.Save(ctx, storage.Products, nonNil(records))
}

// AddOrder places an order: the stock decrement on the product
// collection and the order append are staged together and committed as
// one journaled unit. Stock clamps at zero, so an order larger than the
// stock on hand empties the shelf and is still accepted.
func (r *repository) AddOrder(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := logger.FromCtx(ctx).With(zap.String("layer", "ledger"), zap.Int("order_id", o.ID))

	var orders []orderRecord
	if err := r.store.Load(ctx, storage.Orders, &orders); err != nil {
		return err
	}
	for _, rec := range orders {
		if rec.OrderID == o.ID {
			log.Warn("duplicate order id")
			return fmt.Errorf("order %d: %w", o.ID, ErrDuplicateKey)
		}
	}

	var products []productRecord
	if err := r.store.Load(ctx, storage.Products, &products); err != nil {
		return err
	}
	for _, item := range o.Items {
		for i := range products {
			if products[i].ProductID == item.ProductID {
				products[i].Stock -= item.Quantity
				if products[i].Stock < 0 {
					products[i].Stock = 0
				}
				break
			}
		}
	}

	orders = append(orders, toOrderRecord(o))

	productsDoc, err := json.Marshal(nonNil(products))
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	ordersDoc, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}

	entry := storage.CommitEntry{
		ID:       uuid.NewString(),
		OrderID:  o.ID,
		StagedAt: time.Now(),
		Products: productsDoc,
		Orders:   ordersDoc,
	}
	if err := r.store.CommitStaged(ctx, entry); err != nil {
		return err
	}

	log.Info("order added",
		zap.Int("customer_id", o.CustomerID),
		zap.Int("items", len(o.Items)),
		zap.String("total_amount", o.TotalAmount().String()),
	)
	return nil
}

func (r *repository) GetOrder(ctx context.Context, id int) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.joinOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
}

func (r *repository) GetAllOrders(ctx context.Context) ([]*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joinOrders(ctx)
}

// joinOrders reconstructs every stored order against the current
// customer and product collections. An order whose customer no longer
// resolves is skipped entirely; an item whose product no longer
// resolves is dropped from its order. Item prices come from the stored
// record, not the current catalog, so historical totals stay put.
func (r *repository) joinOrders(ctx context.Context) ([]*model.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "ledger"))

	var orders []orderRecord
	if err := r.store.Load(ctx, storage.Orders, &orders); err != nil {
		return nil, err
	}
	var customers []customerRecord
	if err := r.store.Load(ctx, storage.Customers, &customers); err != nil {
		return nil, err
	}
	var products []productRecord
	if err := r.store.Load(ctx, storage.Products, &products); err != nil {
		return nil, err
	}

	custByID := make(map[int]customerRecord, len(customers))
	for _, rec := range customers {
		custByID[rec.CustomerID] = rec
	}
	prodByID := make(map[int]productRecord, len(products))
	for _, rec := range products {
		prodByID[rec.ProductID] = rec
	}

	result := make([]*model.Order, 0, len(orders))
	for _, rec := range orders {
		custRec, ok := custByID[rec.CustomerID]
		if !ok {
			log.Warn("order references missing customer, skipping",
				zap.Int("order_id", rec.OrderID),
				zap.Int("customer_id", rec.CustomerID),
			)
			continue
		}
		customer := customerFromRecord(custRec)

		o := &model.Order{
			ID:         rec.OrderID,
			CustomerID: rec.CustomerID,
			Customer:   customer,
			Date:       parseDate(rec.Date),
		}
		for _, itemRec := range rec.Items {
			prodRec, ok := prodByID[itemRec.ProductID]
			if !ok {
				log.Warn("order item references missing product, dropping",
					zap.Int("order_id", rec.OrderID),
					zap.Int("product_id", itemRec.ProductID),
				)
				continue
			}
			o.AddItem(model.OrderItem{
				ProductID:   itemRec.ProductID,
				ProductName: prodRec.Name,
				Quantity:    itemRec.Quantity,
				Price:       itemRec.Price,
			})
		}
		customer.AddOrder(o)
		result = append(result, o)
	}
	return result, nil
}
