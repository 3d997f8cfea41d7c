package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/venbruno/coffee-shop/internal/config"
)

var (
	v              = viper.New()
	envFile        string
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "coffee-shop",
	Short: "Seed a PostgreSQL database with a fictional coffee shop's sales history",
	Long: `Creates the coffee shop schema if it is missing, then fills it with the
product catalog, synthetic customers, refunds and a day-by-day history of
orders between --start and --end.

Every option can also come from the environment or a .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSeed,
}

func init() {
	config.SetDefaults(v)

	pf := rootCmd.PersistentFlags()
	pf.String("host", "", "PostgreSQL host (or HOST env)")
	pf.Int("port", 0, "PostgreSQL port (default 5432, or PORT env)")
	pf.String("database", "", "Database name (default postgres, or DATABASE env)")
	pf.String("user", "", "PostgreSQL username (default postgres, or USER env)")
	pf.String("sslmode", "", "libpq sslmode (default prefer, or SSLMODE env)")
	pf.Int("retries", 0, "Max connection attempts for transient errors (default 3, or DB_RETRIES env)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (or LOG_LEVEL env)")
	pf.StringVar(&envFile, "env-file", "", "Load environment from this file instead of .env")
	pf.BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; fail if any required value is missing")
	bindFlags(pf, "env-file", "non-interactive")

	f := rootCmd.Flags()
	f.Int64("seed", 0, "Random seed; 0 picks one from the clock (or SEED_RANDOM_SEED env)")
	f.Int("customers", 0, "Customers to create (default 200, or SEED_CUSTOMERS env)")
	f.Int("refunds", 0, "Refunds to create (default 100, or SEED_REFUNDS env)")
	f.Int("signup-window-days", 0, "Customer sign-up window after 2023-01-01 in days (default 545)")
	f.String("start", "", "First day of order history, YYYY-MM-DD (default 2023-01-01)")
	f.String("end", "", "Last day of order history, YYYY-MM-DD (default 2024-06-30)")
	f.Int("max-orders-per-day", 0, "Upper bound of orders per day (default 10)")
	f.Int("max-items", 0, "Upper bound of line items per order (default 4)")
	f.Int("max-quantity", 0, "Upper bound of quantity per line item (default 3)")
	f.Int("refund-odds", 0, "One line item in N carries a refund (default 20)")
	f.Int("batch-size", 0, "Rows per COPY batch (default 1000, or SEED_BATCH_SIZE env)")
	f.Bool("reset", false, "Truncate the shop tables before seeding (or SEED_RESET env)")
	f.String("metrics-file", "", "Write Prometheus metrics to this file (or METRICS_FILE env)")
	f.String("metrics-prefix", "", "Metric name prefix (default coffee_seed)")
	bindFlags(f)
}

// bindFlags makes viper read every flag of fs except the skipped ones.
// Unset flags fall through to the environment and then the defaults.
func bindFlags(fs *pflag.FlagSet, skip ...string) {
	fs.VisitAll(func(f *pflag.Flag) {
		for _, name := range skip {
			if f.Name == name {
				return
			}
		}
		// BindPFlag only fails on a nil flag.
		_ = v.BindPFlag(f.Name, f)
	})
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
