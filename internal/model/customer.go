package model

import "github.com/shopspring/decimal"

// Customer is a client of the shop. Orders is a derived back-reference
// filled in when orders are read back; the authoritative link is the
// customer id stored on each order.
type Customer struct {
	ID int
	ContactInfo
	Orders []*Order
}

func NewCustomer(id int, name, email, phone, address string) (*Customer, error) {
	contact, err := NewContactInfo(name, email, phone, address)
	if err != nil {
		return nil, err
	}
	return &Customer{ID: id, ContactInfo: contact}, nil
}

func (c *Customer) AddOrder(o *Order) {
	c.Orders = append(c.Orders, o)
}

// TotalSpent sums the totals of the orders attached to this customer.
func (c *Customer) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, o := range c.Orders {
		total = total.Add(o.TotalAmount())
	}
	return total
}
