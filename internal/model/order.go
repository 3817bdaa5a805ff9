package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a quantity of a product at the price it had when the
// order was placed. The price is captured here so historical order
// totals stay stable when catalog prices change later.
type OrderItem struct {
	ProductID   int
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

func NewOrderItem(p *Product, quantity int) (OrderItem, error) {
	if quantity <= 0 {
		return OrderItem{}, fmt.Errorf("%w: %d", ErrBadQuantity, quantity)
	}
	return OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		Price:       p.Price,
	}, nil
}

func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer purchase. CustomerID is the stored foreign key;
// Customer is resolved when the order is read back from the ledger.
type Order struct {
	ID         int
	CustomerID int
	Customer   *Customer
	Date       time.Time
	Items      []OrderItem
}

func NewOrder(id int, customer *Customer, date time.Time) *Order {
	if date.IsZero() {
		date = time.Now()
	}
	return &Order{
		ID:         id,
		CustomerID: customer.ID,
		Customer:   customer,
		Date:       date,
	}
}

func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
}

func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}
