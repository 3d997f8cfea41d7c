package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// RefundReasons is the fixed set of reasons a refund can carry.
var RefundReasons = []string{
	"Produto danificado",
	"Produto não condiz com a descrição",
	"Demora na entrega",
	"Problemas de qualidade",
}

// Insert column lists, one per table. The id column is left to the sequence.
var (
	ProductColumns       = []string{"name", "created_at", "price"}
	CustomerColumns      = []string{"created_at", "first_name", "last_name", "email"}
	RefundColumns        = []string{"created_at", "reason"}
	OrderLineItemColumns = []string{"order_id", "product_id", "customer_id", "refund_id", "created_at", "quantity"}
)

// Product represents a catalog item.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name" validate:"required,max=50"`
	CreatedAt time.Time       `json:"created_at" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gt=0"`
}

// Values returns the row in ProductColumns order.
func (p Product) Values() []any {
	return []any{p.Name, p.CreatedAt, pgtype.Numeric{
		Int:   p.Price.Coefficient(),
		Exp:   p.Price.Exponent(),
		Valid: true,
	}}
}

// Customer represents a shop customer.
type Customer struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	FirstName string    `json:"first_name" validate:"required,max=50"`
	LastName  string    `json:"last_name" validate:"required,max=50"`
	Email     string    `json:"email" validate:"required,email,max=100"`
}

// Values returns the row in CustomerColumns order.
func (c Customer) Values() []any {
	return []any{c.CreatedAt, c.FirstName, c.LastName, c.Email}
}

// Refund represents a refund that line items may point at.
type Refund struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	Reason    string    `json:"reason" validate:"required,refund_reason"`
}

// Values returns the row in RefundColumns order.
func (r Refund) Values() []any {
	return []any{r.CreatedAt, r.Reason}
}

// OrderLineItem is one product and quantity inside an order.
// Line items of the same checkout share OrderID, CustomerID and CreatedAt.
type OrderLineItem struct {
	ID         int       `json:"id"`
	OrderID    int       `json:"order_id" validate:"gt=0"`
	ProductID  int       `json:"product_id" validate:"gt=0"`
	CustomerID int       `json:"customer_id" validate:"gt=0"`
	RefundID   *int      `json:"refund_id,omitempty" validate:"omitempty,gt=0"`
	CreatedAt  time.Time `json:"created_at" validate:"required"`
	Quantity   int       `json:"quantity" validate:"min=1"`
}

// Values returns the row in OrderLineItemColumns order.
func (o OrderLineItem) Values() []any {
	var refundID any
	if o.RefundID != nil {
		refundID = *o.RefundID
	}
	return []any{o.OrderID, o.ProductID, o.CustomerID, refundID, o.CreatedAt, o.Quantity}
}
