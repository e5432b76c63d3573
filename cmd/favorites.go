package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/store"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage saved products",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved products",
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := favoritesStore().List()
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			fmt.Fprintln(os.Stdout, "No favorites yet.")
			return nil
		}
		products := make([]models.Product, len(favs))
		for i, f := range favs {
			products[i] = f.Product
		}
		printProductsTable(products)
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [product URL]",
	Short: "Save the product behind a marketplace URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agg := initEngine()
		product, err := agg.ProductFromURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("no product found at %s", args[0])
		}
		added, err := favoritesStore().Add(store.Favorite{Product: *product})
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintln(os.Stdout, "Already in favorites.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "Saved: %s (%s)\n", product.Name, formatPrice(product.Price))
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove [product URL]",
	Short: "Remove a saved product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := favoritesStore().Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(os.Stdout, "Not in favorites.")
			return nil
		}
		fmt.Fprintln(os.Stdout, "Removed.")
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}
