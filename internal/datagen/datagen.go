package datagen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venbruno/coffee-shop/internal/models"
	"github.com/venbruno/coffee-shop/internal/schema"
)

const day = 24 * time.Hour

// Epoch is the reference start of the seeded history.
var Epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// catalog is the fixed product list, created at Epoch.
var catalog = []struct {
	name  string
	price string
}{
	{"Café Turbinado do Zé", "12.99"},
	{"Expresso dos Sonhos", "9.99"},
	{"Latte Encantado", "14.99"},
	{"Capuccino Surpresa", "13.99"},
}

// Options controls row volume and the simulated date range.
type Options struct {
	Customers        int
	Refunds          int
	SignupWindowDays int
	Start            time.Time
	End              time.Time
	MaxOrdersPerDay  int
	MaxItemsPerOrder int
	MaxQuantity      int
	// RefundOdds is N in "one line item in N carries a refund".
	RefundOdds int
}

// DefaultOptions mirrors the shop's 18 months of history.
func DefaultOptions() Options {
	return Options{
		Customers:        200,
		Refunds:          100,
		SignupWindowDays: 545,
		Start:            Epoch,
		End:              time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		MaxOrdersPerDay:  10,
		MaxItemsPerOrder: 4,
		MaxQuantity:      3,
		RefundOdds:       20,
	}
}

// Validate reports option combinations the generators cannot honor.
func (o Options) Validate() error {
	switch {
	case o.Customers < 0 || o.Refunds < 0:
		return fmt.Errorf("customer and refund counts must not be negative")
	case o.SignupWindowDays < 0:
		return fmt.Errorf("signup window must not be negative, got %d days", o.SignupWindowDays)
	case o.End.Before(o.Start):
		return fmt.Errorf("end date %s is before start date %s", o.End.Format(time.DateOnly), o.Start.Format(time.DateOnly))
	case o.MaxOrdersPerDay < 1 || o.MaxItemsPerOrder < 1 || o.MaxQuantity < 1:
		return fmt.Errorf("orders per day, items per order and quantity maximums must be at least 1")
	case o.RefundOdds < 1:
		return fmt.Errorf("refund odds must be at least 1, got %d", o.RefundOdds)
	}
	return nil
}

// Days returns the inclusive number of calendar days between Start and End.
func (o Options) Days() int {
	return int(truncateDay(o.End).Sub(truncateDay(o.Start))/day) + 1
}

// Generator fabricates shop rows from a single random source, so a fixed
// seed reproduces the whole run. It is not safe for concurrent use.
type Generator struct {
	rng   *rand.Rand
	faker *Faker
	opts  Options
}

// New returns a Generator seeded with seed.
func New(seed int64, opts Options) *Generator {
	rng := rand.New(rand.NewSource(seed))
	return &Generator{rng: rng, faker: NewFaker(rng), opts: opts}
}

// Options returns the generator's options.
func (g *Generator) Options() Options { return g.opts }

// Products returns the fixed catalog.
func (g *Generator) Products() []models.Product {
	products := make([]models.Product, len(catalog))
	for i, item := range catalog {
		products[i] = models.Product{
			Name:      item.name,
			CreatedAt: Epoch,
			Price:     decimal.RequireFromString(item.price),
		}
	}
	return products
}

// Customers fabricates opts.Customers customers. Emails are unique within
// the returned slice; uniqueness against existing rows is left to the
// database constraint.
func (g *Generator) Customers() []models.Customer {
	const maxEmailAttempts = 20

	customers := make([]models.Customer, g.opts.Customers)
	seen := make(map[string]bool, g.opts.Customers)
	for i := range customers {
		createdAt := g.signupDate()
		first := g.faker.FirstName()
		last := g.faker.LastName()

		email := g.faker.Email()
		for attempt := 1; seen[email] && attempt < maxEmailAttempts; attempt++ {
			email = g.faker.Email()
		}
		if seen[email] {
			email = fmt.Sprintf("%s.%d@%s", asciiFold(first), i+1, randomFrom(g.rng, emailDomains))
		}
		seen[email] = true

		customers[i] = models.Customer{
			CreatedAt: createdAt,
			FirstName: first,
			LastName:  last,
			Email:     email,
		}
	}
	return customers
}

// Refunds fabricates opts.Refunds refunds with reasons from the fixed set.
func (g *Generator) Refunds() []models.Refund {
	refunds := make([]models.Refund, g.opts.Refunds)
	for i := range refunds {
		refunds[i] = models.Refund{
			CreatedAt: g.signupDate(),
			Reason:    randomFrom(g.rng, models.RefundReasons),
		}
	}
	return refunds
}

// OrderLineItems simulates checkouts day by day from Start through End.
// Order IDs start at firstOrderID and increase by one per order. Customers,
// products and refunds are drawn from ids. The per-day order count is flat
// uniform; there is no growth trend. A refund is attached to a line item
// independently of the order it belongs to.
//
// It returns the line items and the number of orders they form.
func (g *Generator) OrderLineItems(firstOrderID int, ids *IDPool) ([]models.OrderLineItem, int, error) {
	if firstOrderID < 1 {
		return nil, 0, fmt.Errorf("first order id must be positive, got %d", firstOrderID)
	}
	for _, table := range []string{schema.Customers, schema.Products} {
		if ids.Count(table) == 0 {
			return nil, 0, fmt.Errorf("no %s to reference", table)
		}
	}
	hasRefunds := ids.Count(schema.Refunds) > 0

	var items []models.OrderLineItem
	orderID := firstOrderID
	end := truncateDay(g.opts.End)
	for current := truncateDay(g.opts.Start); !current.After(end); current = current.Add(day) {
		orders := randIntRange(g.rng, 1, g.opts.MaxOrdersPerDay)
		for range orders {
			customerID := ids.RandomID(g.rng, schema.Customers)
			numItems := randIntRange(g.rng, 1, g.opts.MaxItemsPerOrder)
			for range numItems {
				item := models.OrderLineItem{
					OrderID:    orderID,
					ProductID:  ids.RandomID(g.rng, schema.Products),
					CustomerID: customerID,
					CreatedAt:  current,
					Quantity:   randIntRange(g.rng, 1, g.opts.MaxQuantity),
				}
				if hasRefunds && g.rng.Intn(g.opts.RefundOdds) == 0 {
					refundID := ids.RandomID(g.rng, schema.Refunds)
					item.RefundID = &refundID
				}
				items = append(items, item)
			}
			orderID++
		}
	}

	return items, orderID - firstOrderID, nil
}

// signupDate returns Epoch plus a whole number of days in [0, SignupWindowDays].
func (g *Generator) signupDate() time.Time {
	return Epoch.Add(time.Duration(g.rng.Intn(g.opts.SignupWindowDays+1)) * day)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
