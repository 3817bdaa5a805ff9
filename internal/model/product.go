package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock never goes below zero.
type Product struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Category string
	Stock    int
}

func NewProduct(id int, name string, price decimal.Decimal, category string, stock int) (*Product, error) {
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativePrice, price)
	}
	if stock < 0 {
		stock = 0
	}
	return &Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: category,
		Stock:    stock,
	}, nil
}

// AdjustStock applies a delta to the stock level, clamping at zero.
func (p *Product) AdjustStock(delta int) {
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
}
