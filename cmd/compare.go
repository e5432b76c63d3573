package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/rank"
	"github.com/junwei-lu/pricelens/internal/ui"
)

var compareCmd = &cobra.Command{
	Use:   "compare [product name]",
	Short: "Compare prices for a product, cheapest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	agg := initEngine()

	name := args[0]
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Comparing prices for '%s'...", name))
	ranked, err := agg.ComparePrices(cmd.Context(), name, cfg.Platforms)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	persistComparison(cmd.Context(), name, ranked)

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	printProductsTable(ranked)
	if len(ranked) > 0 {
		printStats(rank.Summarize(ranked))
	}
	return nil
}
