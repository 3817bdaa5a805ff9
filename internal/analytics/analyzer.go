// Package analytics derives business reports from ledger snapshots:
// ranked leaderboards, time-bucketed sales trends and the customer
// affinity graph. Every operation is a pure read over the repository's
// current state.
package analytics

import (
	"context"
	"sort"

	"salesledger/internal/model"

	"github.com/shopspring/decimal"
)

// DataSource is the read-only slice of the ledger the analyzer consumes.
type DataSource interface {
	GetAllCustomers(ctx context.Context) ([]*model.Customer, error)
	GetAllProducts(ctx context.Context) ([]*model.Product, error)
	GetAllOrders(ctx context.Context) ([]*model.Order, error)
}

type Analyzer struct {
	src DataSource
}

func NewAnalyzer(src DataSource) *Analyzer {
	return &Analyzer{src: src}
}

type CustomerStats struct {
	Customer   *model.Customer
	OrderCount int
	TotalSpent decimal.Decimal
}

// TopCustomers ranks customers by order count, descending. The sort is
// stable, so ties keep the customers' stored order. Customers without
// orders are part of the ranking and sink to the bottom, where a small
// n truncates them away.
func (a *Analyzer) TopCustomers(ctx context.Context, n int) ([]CustomerStats, error) {
	customers, err := a.src.GetAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := a.src.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		count int
		total decimal.Decimal
	}
	byCustomer := make(map[int]agg, len(customers))
	for _, o := range orders {
		s := byCustomer[o.CustomerID]
		s.count++
		s.total = s.total.Add(o.TotalAmount())
		byCustomer[o.CustomerID] = s
	}

	stats := make([]CustomerStats, 0, len(customers))
	for _, c := range customers {
		s := byCustomer[c.ID]
		stats = append(stats, CustomerStats{
			Customer:   c,
			OrderCount: s.count,
			TotalSpent: s.total,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].OrderCount > stats[j].OrderCount
	})

	if n >= 0 && n < len(stats) {
		stats = stats[:n]
	}
	return stats, nil
}

type ProductStats struct {
	Product  *model.Product
	Quantity int
	Revenue  decimal.Decimal
}

// TopProducts ranks products by units sold, descending, with revenue
// alongside. Every catalog product is seeded into the ranking, so
// zero-sellers show up with zero stats instead of vanishing.
func (a *Analyzer) TopProducts(ctx context.Context, n int) ([]ProductStats, error) {
	products, err := a.src.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := a.src.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		quantity int
		revenue  decimal.Decimal
	}
	byProduct := make(map[int]agg, len(products))
	for _, o := range orders {
		for _, item := range o.Items {
			s := byProduct[item.ProductID]
			s.quantity += item.Quantity
			s.revenue = s.revenue.Add(item.TotalPrice())
			byProduct[item.ProductID] = s
		}
	}

	stats := make([]ProductStats, 0, len(products))
	for _, p := range products {
		s := byProduct[p.ID]
		stats = append(stats, ProductStats{
			Product:  p,
			Quantity: s.quantity,
			Revenue:  s.revenue,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Quantity > stats[j].Quantity
	})

	if n >= 0 && n < len(stats) {
		stats = stats[:n]
	}
	return stats, nil
}
