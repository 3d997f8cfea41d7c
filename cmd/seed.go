package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/venbruno/coffee-shop/internal/config"
	"github.com/venbruno/coffee-shop/internal/datagen"
	"github.com/venbruno/coffee-shop/internal/metrics"
	"github.com/venbruno/coffee-shop/internal/schema"
	"github.com/venbruno/coffee-shop/internal/seeder"
	"github.com/venbruno/coffee-shop/internal/store"
)

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	seed := resolveSeed(cfg.Seed.RandomSeed, time.Now())
	log.Info("Starting seed run", append(cfg.Fields(), zap.Int64("seed", seed))...)

	ctx := cmd.Context()
	st, err := store.Connect(ctx, &cfg.DB, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)
	log.Info("Connected", zap.String("host", cfg.DB.Host), zap.Int("port", cfg.DB.Port), zap.String("database", cfg.DB.Name))

	m := metrics.New(cfg.Metrics.Prefix)
	gen := datagen.New(seed, generatorOptions(cfg.Seed))
	s := seeder.New(st, gen, m, log, seeder.Options{BatchSize: cfg.Seed.BatchSize, Reset: cfg.Seed.Reset})

	res, runErr := s.Run(ctx)
	writeMetrics(cfg.Metrics.File, m, log)
	if runErr != nil {
		return runErr
	}

	log.Info("Seeding complete",
		zap.String("run_id", res.RunID),
		zap.Int64("seed", seed),
		zap.Int("products", res.Inserted[schema.Products]),
		zap.Int("customers", res.Inserted[schema.Customers]),
		zap.Int("refunds", res.Inserted[schema.Refunds]),
		zap.Int("order_line_items", res.Inserted[schema.OrderLineItems]),
		zap.Int("orders", res.Orders),
		zap.Duration("duration", res.Duration))
	return nil
}

// resolveSeed returns seed, or a clock based seed when it is zero.
func resolveSeed(seed int64, now time.Time) int64 {
	if seed != 0 {
		return seed
	}
	return now.UnixNano()
}

func generatorOptions(c config.SeedConfig) datagen.Options {
	return datagen.Options{
		Customers:        c.Customers,
		Refunds:          c.Refunds,
		SignupWindowDays: c.SignupWindowDays,
		Start:            c.Start,
		End:              c.End,
		MaxOrdersPerDay:  c.MaxOrdersPerDay,
		MaxItemsPerOrder: c.MaxItemsPerOrder,
		MaxQuantity:      c.MaxQuantity,
		RefundOdds:       c.RefundOdds,
	}
}

// writeMetrics writes the textfile when a path is configured. A failure is
// logged and does not fail the run.
func writeMetrics(path string, m *metrics.SeedMetrics, log *zap.Logger) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		log.Warn("Failed to write metrics file", zap.String("path", path), zap.Error(err))
		return
	}
	log.Debug("Metrics written", zap.String("path", path))
}

func closeStore(st *store.Store, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.Close(ctx); err != nil {
		log.Warn("Failed to close connection", zap.Error(err))
	}
}
