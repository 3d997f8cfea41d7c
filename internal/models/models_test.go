package models_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venbruno/coffee-shop/internal/models"
)

var epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func TestValidator_Product(t *testing.T) {
	v := models.NewValidator()

	ok := models.Product{Name: "Latte Encantado", CreatedAt: epoch, Price: decimal.RequireFromString("14.99")}
	assert.NoError(t, v.Struct(ok))

	free := ok
	free.Price = decimal.Zero
	assert.Error(t, v.Struct(free))

	unnamed := ok
	unnamed.Name = ""
	assert.Error(t, v.Struct(unnamed))
}

func TestValidator_Customer(t *testing.T) {
	v := models.NewValidator()

	c := models.Customer{CreatedAt: epoch, FirstName: "João", LastName: "Araújo", Email: "joao.araujo@bol.com.br"}
	assert.NoError(t, v.Struct(c))

	c.Email = "joao.araujo"
	assert.Error(t, v.Struct(c))

	c.Email = "joao@example.com"
	c.CreatedAt = time.Time{}
	assert.Error(t, v.Struct(c))
}

func TestValidator_RefundReason(t *testing.T) {
	v := models.NewValidator()

	for _, reason := range models.RefundReasons {
		assert.NoError(t, v.Struct(models.Refund{CreatedAt: epoch, Reason: reason}), reason)
	}
	assert.Error(t, v.Struct(models.Refund{CreatedAt: epoch, Reason: "Mudei de ideia"}))
}

func TestValidator_OrderLineItem(t *testing.T) {
	v := models.NewValidator()
	refund := 7

	item := models.OrderLineItem{OrderID: 1, ProductID: 2, CustomerID: 3, RefundID: &refund, CreatedAt: epoch, Quantity: 1}
	assert.NoError(t, v.Struct(item))

	item.RefundID = nil
	assert.NoError(t, v.Struct(item))

	item.Quantity = 0
	assert.Error(t, v.Struct(item))

	item.Quantity = 2
	item.OrderID = 0
	assert.Error(t, v.Struct(item))
}

func TestProduct_ValuesEncodesExactPrice(t *testing.T) {
	p := models.Product{Name: "Expresso dos Sonhos", CreatedAt: epoch, Price: decimal.RequireFromString("9.99")}
	values := p.Values()
	require.Len(t, values, len(models.ProductColumns))

	num, ok := values[2].(pgtype.Numeric)
	require.True(t, ok)
	assert.True(t, num.Valid)
	assert.Equal(t, int64(999), num.Int.Int64())
	assert.Equal(t, int32(-2), num.Exp)
}

func TestOrderLineItem_ValuesNullRefund(t *testing.T) {
	item := models.OrderLineItem{OrderID: 4, ProductID: 1, CustomerID: 9, CreatedAt: epoch, Quantity: 3}
	values := item.Values()
	require.Len(t, values, len(models.OrderLineItemColumns))
	assert.Nil(t, values[3])

	refund := 12
	item.RefundID = &refund
	assert.Equal(t, 12, item.Values()[3])
}
