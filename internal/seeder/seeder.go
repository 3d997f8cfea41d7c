package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venbruno/coffee-shop/internal/datagen"
	"github.com/venbruno/coffee-shop/internal/metrics"
	"github.com/venbruno/coffee-shop/internal/models"
	"github.com/venbruno/coffee-shop/internal/schema"
)

// Store is the persistence the pipeline writes through.
type Store interface {
	CreateTables(ctx context.Context, tables []schema.TableTemplate) error
	Truncate(ctx context.Context, tables []string) error
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) ([]int, error)
	NextOrderID(ctx context.Context) (int, error)
}

// Options tunes how rows are written.
type Options struct {
	BatchSize int
	// Reset truncates the shop tables before seeding.
	Reset bool
}

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Inserted map[string]int
	Orders   int
	Duration time.Duration
}

// Seeder runs the pipeline: schema, products, customers, refunds, order
// line items. Stages run in order and the first error aborts the run.
type Seeder struct {
	store    Store
	gen      *datagen.Generator
	validate *validator.Validate
	metrics  *metrics.SeedMetrics
	log      *zap.Logger
	opts     Options
	tables   []schema.TableTemplate
}

// New creates a Seeder.
func New(store Store, gen *datagen.Generator, m *metrics.SeedMetrics, log *zap.Logger, opts Options) *Seeder {
	return &Seeder{
		store:    store,
		gen:      gen,
		validate: models.NewValidator(),
		metrics:  m,
		log:      log,
		opts:     opts,
		tables:   schema.Tables(),
	}
}

// Run seeds the database.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := s.gen.Options().Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator options: %w", err)
	}

	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Inserted: make(map[string]int)}
	s.log = s.log.With(zap.String("run_id", res.RunID))

	if err := s.CreateSchema(ctx); err != nil {
		return nil, err
	}

	if s.opts.Reset {
		if err := s.store.Truncate(ctx, schema.Names(s.tables)); err != nil {
			return nil, fmt.Errorf("reset tables: %w", err)
		}
		s.log.Info("Tables truncated.")
	}

	ids := datagen.NewIDPool()

	productIDs, err := insertStage(ctx, s, "products", schema.Products, models.ProductColumns, s.gen.Products())
	if err != nil {
		return nil, err
	}
	ids.AddIDs(schema.Products, productIDs)
	res.Inserted[schema.Products] = len(productIDs)
	s.log.Info("Products inserted successfully.", zap.Int("rows", len(productIDs)))

	customerIDs, err := insertStage(ctx, s, "customers", schema.Customers, models.CustomerColumns, s.gen.Customers())
	if err != nil {
		return nil, err
	}
	ids.AddIDs(schema.Customers, customerIDs)
	res.Inserted[schema.Customers] = len(customerIDs)
	s.log.Info("Customers inserted successfully.", zap.Int("rows", len(customerIDs)))

	refundIDs, err := insertStage(ctx, s, "refunds", schema.Refunds, models.RefundColumns, s.gen.Refunds())
	if err != nil {
		return nil, err
	}
	ids.AddIDs(schema.Refunds, refundIDs)
	res.Inserted[schema.Refunds] = len(refundIDs)
	s.log.Info("Refunds inserted successfully.", zap.Int("rows", len(refundIDs)))

	firstOrderID, err := s.store.NextOrderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed order line items: %w", err)
	}
	items, orders, err := s.gen.OrderLineItems(firstOrderID, ids)
	if err != nil {
		return nil, fmt.Errorf("generate order line items: %w", err)
	}
	itemIDs, err := insertStage(ctx, s, "order_line_items", schema.OrderLineItems, models.OrderLineItemColumns, items)
	if err != nil {
		return nil, err
	}
	res.Inserted[schema.OrderLineItems] = len(itemIDs)
	res.Orders = orders
	s.log.Info("Order line items inserted successfully.",
		zap.Int("rows", len(itemIDs)),
		zap.Int("orders", orders),
		zap.Int("first_order_id", firstOrderID))

	res.Duration = time.Since(start)
	s.metrics.MarkSuccess()
	return res, nil
}

// CreateSchema ensures the shop tables exist.
func (s *Seeder) CreateSchema(ctx context.Context) error {
	defer s.metrics.TrackStage("schema")(time.Now())

	if err := s.store.CreateTables(ctx, s.tables); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	s.log.Info("Tables created successfully.")
	return nil
}

type row interface {
	Values() []any
}

// insertStage validates rows and writes them as one stage.
func insertStage[T row](ctx context.Context, s *Seeder, stage, table string, columns []string, items []T) ([]int, error) {
	defer s.metrics.TrackStage(stage)(time.Now())

	rows := make([][]any, len(items))
	for i, item := range items {
		if err := s.validate.Struct(item); err != nil {
			return nil, fmt.Errorf("seed %s: invalid row %d: %w", stage, i, err)
		}
		rows[i] = item.Values()
	}

	ids, err := s.store.InsertRows(ctx, table, columns, rows, s.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", stage, err)
	}
	s.metrics.RecordRows(table, len(ids))
	return ids, nil
}
