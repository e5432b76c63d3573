package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/aggregate"
	"github.com/junwei-lu/pricelens/internal/db"
	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
	"github.com/junwei-lu/pricelens/internal/rank"
	"github.com/junwei-lu/pricelens/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search products across all platforms",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("sort", models.SortByPrice, "Sort: price, sales, rating, relevance, discount")
	searchCmd.Flags().String("only", "", "Keep results from one platform only")
	searchCmd.Flags().Float64("min-price", 0, "Minimum price")
	searchCmd.Flags().Float64("max-price", 0, "Maximum price")
	searchCmd.Flags().Int("min-sales", 0, "Minimum sales volume")
	searchCmd.Flags().Float64("min-rating", 0, "Minimum rating (0-5)")
	searchCmd.Flags().Int("limit", 20, "Products per platform")
	searchCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	agg := initEngine()

	keyword := args[0]
	sortBy, _ := cmd.Flags().GetString("sort")
	only, _ := cmd.Flags().GetString("only")
	format, _ := cmd.Flags().GetString("format")

	filters := filtersFromFlags(cmd)
	filters.SortBy = sortBy

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Searching '%s' on %s...", keyword, strings.Join(cfg.Platforms, ", ")))
	ctx := platform.WithProgress(cmd.Context(), spin.Update)
	results, err := agg.SearchAll(ctx, keyword, cfg.Platforms, filters)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	ranked := rank.Rank(aggregate.Flatten(results), sortBy, only)

	if err := historyStore().Record(keyword, cfg.Platforms, len(ranked)); err != nil {
		log.WithError(err).Warn("could not record search history")
	}
	fired, err := alertsStore().Check(ranked)
	if err != nil {
		log.WithError(err).Warn("could not check price alerts")
	}
	for _, alert := range fired {
		fmt.Fprintf(os.Stderr, "🔔 Price alert: %s dropped to target %s\n",
			alert.ProductName, formatPrice(alert.TargetPrice))
	}
	persistComparison(cmd.Context(), keyword, ranked)

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	default:
		printProductsTable(ranked)
	}
	return nil
}

func filtersFromFlags(cmd *cobra.Command) *models.SearchFilters {
	minPrice, _ := cmd.Flags().GetFloat64("min-price")
	maxPrice, _ := cmd.Flags().GetFloat64("max-price")
	minSales, _ := cmd.Flags().GetInt("min-sales")
	minRating, _ := cmd.Flags().GetFloat64("min-rating")
	limit, _ := cmd.Flags().GetInt("limit")

	return &models.SearchFilters{
		PriceMin:  minPrice,
		PriceMax:  maxPrice,
		MinSales:  minSales,
		MinRating: minRating,
		Limit:     limit,
	}
}

// persistComparison writes the run to Postgres when DATABASE_URL is set.
// Persistence problems never fail the search.
func persistComparison(ctx context.Context, keyword string, results []models.Product) {
	if cfg.DatabaseURL == "" || len(results) == 0 {
		return
	}
	sink, err := db.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Warn("database unavailable, skipping persistence")
		return
	}
	defer sink.Close()
	if err := sink.SaveComparison(ctx, keyword, results); err != nil {
		log.WithError(err).Warn("could not persist comparison")
	}
}
