package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/aggregate"
	"github.com/junwei-lu/pricelens/internal/store"
	"github.com/junwei-lu/pricelens/internal/ui"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage price alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List price alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		alerts, err := alertsStore().List()
		if err != nil {
			return err
		}
		if len(alerts) == 0 {
			fmt.Fprintln(os.Stdout, "No price alerts set.")
			return nil
		}
		for _, a := range alerts {
			state := "watching"
			if a.Triggered {
				state = "TRIGGERED"
			}
			fmt.Fprintf(os.Stdout, " [%s] %s (%s) — target %s\n",
				state, a.ProductName, a.Platform, formatPrice(a.TargetPrice))
		}
		return nil
	},
}

var alertsAddCmd = &cobra.Command{
	Use:   "add [product URL] [target price]",
	Short: "Watch a product for a target price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseFloat(args[1], 64)
		if err != nil || target <= 0 {
			return fmt.Errorf("invalid target price %q", args[1])
		}

		agg := initEngine()
		product, err := agg.ProductFromURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("no product found at %s", args[0])
		}

		err = alertsStore().Add(store.PriceAlert{
			ProductName: product.Name,
			ProductURL:  product.ProductURL,
			Platform:    product.Platform,
			TargetPrice: target,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Watching %s for %s (now %s)\n",
			product.Name, formatPrice(target), formatPrice(product.Price))
		return nil
	},
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Re-search watched products and fire matching alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		alerts := alertsStore()
		watching, err := alerts.List()
		if err != nil {
			return err
		}
		if len(watching) == 0 {
			fmt.Fprintln(os.Stdout, "No price alerts set.")
			return nil
		}

		agg := initEngine()
		spin := ui.NewSpinner()
		spin.Start("Checking watched products...")

		var fired int
		for _, a := range watching {
			if a.Triggered {
				continue
			}
			results, err := agg.SearchAll(cmd.Context(), a.ProductName, cfg.Platforms, nil)
			if err != nil {
				continue
			}
			hits, err := alerts.Check(aggregate.Flatten(results))
			if err != nil {
				spin.Stop()
				return err
			}
			fired += len(hits)
		}
		spin.Stop()

		if fired == 0 {
			fmt.Fprintln(os.Stdout, "No alerts triggered.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "🔔 %d alert(s) triggered — run 'pricelens alerts list'\n", fired)
		return nil
	},
}

func init() {
	alertsCmd.AddCommand(alertsListCmd, alertsAddCmd, alertsCheckCmd)
	rootCmd.AddCommand(alertsCmd)
}
