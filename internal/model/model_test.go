package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"test@mail.com", "test.name@mail.ru", "test123@domain.org"}
	for _, e := range valid {
		assert.True(t, ValidEmail(e), e)
	}

	invalid := []string{"invalid", "invalid@", "@mail.com", ""}
	for _, e := range invalid {
		assert.False(t, ValidEmail(e), e)
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{
		"+79161234567",
		"89161234567",
		"79161234567",
		"9161234567",
		"(916)123-4567",
		"916-123-4567",
	}
	for _, p := range valid {
		assert.True(t, ValidPhone(p), p)
	}

	invalid := []string{
		"1234567890",
		"916123456",
		"91612345678",
		"abc9161234567",
		"",
	}
	for _, p := range invalid {
		assert.False(t, ValidPhone(p), p)
	}
}

func TestNewContactInfo(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		contact, err := NewContactInfo("Ivan Ivanov", "ivan@mail.com", "+79161234567", "Moscow")
		require.NoError(t, err)
		assert.Equal(t, "Ivan Ivanov", contact.Name)
		assert.Equal(t, "ivan@mail.com", contact.Email)
		assert.Equal(t, "+79161234567", contact.Phone)
		assert.Equal(t, "Moscow", contact.Address)
	})

	t.Run("BadEmail", func(t *testing.T) {
		_, err := NewContactInfo("Ivan", "not-an-email", "+79161234567", "Moscow")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("BadPhone", func(t *testing.T) {
		_, err := NewContactInfo("Ivan", "ivan@mail.com", "12345", "Moscow")
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(1, "Ivan Ivanov", "ivan@mail.com", "+79161234567", "Moscow")
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Empty(t, c.Orders)

	_, err = NewCustomer(2, "Ivan", "bad", "+79161234567", "Moscow")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestNewProduct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p, err := NewProduct(1, "Phone", decimal.NewFromInt(10000), "Electronics", 10)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Stock)
		assert.True(t, p.Price.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("NegativePrice", func(t *testing.T) {
		_, err := NewProduct(2, "Phone", decimal.NewFromInt(-1), "Electronics", 10)
		assert.ErrorIs(t, err, ErrNegativePrice)
	})

	t.Run("NegativeStockClamped", func(t *testing.T) {
		p, err := NewProduct(3, "Phone", decimal.NewFromInt(100), "Electronics", -5)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Stock)
	})
}

func TestProductAdjustStock(t *testing.T) {
	p, err := NewProduct(1, "Phone", decimal.NewFromInt(100), "Electronics", 3)
	require.NoError(t, err)

	p.AdjustStock(2)
	assert.Equal(t, 5, p.Stock)

	p.AdjustStock(-10)
	assert.Equal(t, 0, p.Stock, "stock clamps at zero")
}

func TestOrderItemTotalPrice(t *testing.T) {
	p, err := NewProduct(1, "Phone", decimal.NewFromFloat(10000.50), "Electronics", 10)
	require.NoError(t, err)

	item, err := NewOrderItem(p, 3)
	require.NoError(t, err)
	assert.True(t, item.TotalPrice().Equal(decimal.NewFromFloat(30001.50)))

	_, err = NewOrderItem(p, 0)
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestOrderItemCapturesPrice(t *testing.T) {
	p, err := NewProduct(1, "Phone", decimal.NewFromInt(10000), "Electronics", 10)
	require.NoError(t, err)

	item, err := NewOrderItem(p, 1)
	require.NoError(t, err)

	// Later price change must not affect the captured item price.
	p.Price = decimal.NewFromInt(20000)
	assert.True(t, item.TotalPrice().Equal(decimal.NewFromInt(10000)))
}

func TestOrderTotalAmount(t *testing.T) {
	c, err := NewCustomer(1, "Ivan", "ivan@mail.com", "+79161234567", "Moscow")
	require.NoError(t, err)

	phone, err := NewProduct(1, "Phone", decimal.NewFromInt(10000), "Electronics", 10)
	require.NoError(t, err)
	book, err := NewProduct(3, "Book", decimal.NewFromInt(500), "Books", 20)
	require.NoError(t, err)

	o := NewOrder(1, c, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.True(t, o.TotalAmount().IsZero())

	item1, err := NewOrderItem(phone, 2)
	require.NoError(t, err)
	item2, err := NewOrderItem(book, 1)
	require.NoError(t, err)
	o.AddItem(item1)
	o.AddItem(item2)

	assert.True(t, o.TotalAmount().Equal(decimal.NewFromInt(20500)))
	assert.Equal(t, 1, o.CustomerID)
}

func TestCustomerTotalSpent(t *testing.T) {
	c, err := NewCustomer(1, "Ivan", "ivan@mail.com", "+79161234567", "Moscow")
	require.NoError(t, err)

	phone, err := NewProduct(1, "Phone", decimal.NewFromInt(10000), "Electronics", 10)
	require.NoError(t, err)

	o1 := NewOrder(1, c, time.Now())
	item, err := NewOrderItem(phone, 2)
	require.NoError(t, err)
	o1.AddItem(item)

	o2 := NewOrder(2, c, time.Now())
	item, err = NewOrderItem(phone, 1)
	require.NoError(t, err)
	o2.AddItem(item)

	c.AddOrder(o1)
	c.AddOrder(o2)

	assert.True(t, c.TotalSpent().Equal(decimal.NewFromInt(30000)))
}

func TestNewOrderDefaultsDate(t *testing.T) {
	c, err := NewCustomer(1, "Ivan", "ivan@mail.com", "+79161234567", "Moscow")
	require.NoError(t, err)

	o := NewOrder(1, c, time.Time{})
	assert.WithinDuration(t, time.Now(), o.Date, time.Minute)
}
