package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/venbruno/coffee-shop/internal/schema"
	"github.com/venbruno/coffee-shop/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the row count of every coffee shop table",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	names := schema.Names(schema.Tables())
	counts, err := st.RowCounts(ctx, names)
	if err != nil {
		return err
	}
	return printCounts(cmd.OutOrStdout(), names, counts)
}

func printCounts(out io.Writer, tables []string, counts map[string]int64) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tROWS")
	for _, table := range tables {
		fmt.Fprintf(w, "%s\t%d\n", table, counts[table])
	}
	return w.Flush()
}
