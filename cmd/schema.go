package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/venbruno/coffee-shop/internal/schema"
	"github.com/venbruno/coffee-shop/internal/store"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the coffee shop tables if they do not exist",
	Long: `Creates products, customers, refunds and order_line_items with their
keys and indexes. Existing tables are left untouched, so running it twice is
safe.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	st, err := store.Connect(ctx, &cfg.DB, log)
	if err != nil {
		return err
	}
	defer closeStore(st, log)

	tables := schema.Tables()
	if err := st.CreateTables(ctx, tables); err != nil {
		return err
	}
	log.Info("Tables created successfully.", zap.Strings("tables", schema.Names(tables)))
	return nil
}
