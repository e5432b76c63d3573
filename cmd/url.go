package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/rank"
	"github.com/junwei-lu/pricelens/internal/ui"
)

var urlCmd = &cobra.Command{
	Use:   "url [product URL]",
	Short: "Fetch product details from a marketplace URL",
	Long:  "Detects the platform from the URL and fetches the product. With --compare, also searches the other platforms for the same product and ranks everything by price.",
	Args:  cobra.ExactArgs(1),
	RunE:  runURL,
}

func init() {
	urlCmd.Flags().Bool("compare", false, "Also search other platforms for this product")
	urlCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	agg := initEngine()
	compare, _ := cmd.Flags().GetBool("compare")
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()

	if compare {
		spin.Start("Comparing product across platforms...")
		combined, err := agg.SearchByURL(cmd.Context(), args[0], cfg.Platforms)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}
		// The resolved product stays first; the rest sorts by price.
		ranked := append(combined[:1:1], rank.Rank(combined[1:], models.SortByPrice, "")...)
		if format == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(ranked)
		}
		printProductsTable(ranked)
		return nil
	}

	spin.Start("Fetching product details...")
	product, err := agg.ProductFromURL(cmd.Context(), args[0])
	spin.Stop()
	if err != nil {
		return fmt.Errorf("detail fetch failed: %w", err)
	}
	if product == nil {
		fmt.Fprintln(os.Stdout, "No product found at that URL.")
		return nil
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(product)
	}
	printProductsTable([]models.Product{*product})
	return nil
}
