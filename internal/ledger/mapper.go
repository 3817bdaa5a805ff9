package ledger

import (
	"time"

	"salesledger/internal/model"

	"github.com/shopspring/decimal"
)

// Wire records mirror the collection file layout field-for-field, so
// data files written by earlier versions of the ledger load unchanged.

type customerRecord struct {
	CustomerID int    `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

type productRecord struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock"`
}

type orderItemRecord struct {
	ProductID  int             `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type orderRecord struct {
	OrderID     int               `json:"order_id"`
	CustomerID  int               `json:"customer_id"`
	Date        string            `json:"date"`
	Items       []orderItemRecord `json:"items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

func toCustomerRecord(c *model.Customer) customerRecord {
	return customerRecord{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
	}
}

// customerFromRecord trusts the stored fields: validation ran when the
// record was first persisted.
func customerFromRecord(rec customerRecord) *model.Customer {
	return &model.Customer{
		ID: rec.CustomerID,
		ContactInfo: model.ContactInfo{
			Name:    rec.Name,
			Email:   rec.Email,
			Phone:   rec.Phone,
			Address: rec.Address,
		},
	}
}

func toProductRecord(p *model.Product) productRecord {
	return productRecord{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Stock:     p.Stock,
	}
}

func productFromRecord(rec productRecord) *model.Product {
	return &model.Product{
		ID:       rec.ProductID,
		Name:     rec.Name,
		Price:    rec.Price,
		Category: rec.Category,
		Stock:    rec.Stock,
	}
}

func toOrderRecord(o *model.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemRecord{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.TotalPrice(),
		})
	}
	return orderRecord{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		Date:        o.Date.Format(time.RFC3339Nano),
		Items:       items,
		TotalAmount: o.TotalAmount(),
	}
}

// dateLayouts covers this ledger's own timestamps plus the offset-less
// ISO form found in pre-existing data files.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
