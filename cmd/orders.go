package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/db"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage purchase orders in the hosted backend",
	Long:  "Create, track and summarize vendor orders. Requires DATABASE_URL.",
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pending order for a vendor",
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := openOrderSink(cmd)
		if err != nil {
			return err
		}
		defer sink.Close()

		vendor, _ := cmd.Flags().GetString("vendor")
		if vendor == "" {
			return fmt.Errorf("--vendor is required")
		}
		rawItems, _ := cmd.Flags().GetStringArray("item")
		items := make([]db.OrderItem, 0, len(rawItems))
		for _, raw := range rawItems {
			item, err := parseOrderItem(raw)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		shipping, _ := cmd.Flags().GetFloat64("shipping")
		payment, _ := cmd.Flags().GetString("payment")
		notes, _ := cmd.Flags().GetString("notes")

		order, err := sink.CreateOrder(cmd.Context(), vendor, items, shipping, payment, notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created order %s with %d items, total %s.\n",
			order.OrderNumber, len(items), formatPrice(order.TotalAmount))
		return nil
	},
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := openOrderSink(cmd)
		if err != nil {
			return err
		}
		defer sink.Close()

		status, _ := cmd.Flags().GetString("status")
		if status != "" && !db.ValidOrderStatus(status) {
			return fmt.Errorf("unknown order status %q", status)
		}
		vendor, _ := cmd.Flags().GetString("vendor")

		orders, err := sink.ListOrders(cmd.Context(), status, vendor)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Fprintln(os.Stdout, "No orders.")
			return nil
		}
		for _, o := range orders {
			line := fmt.Sprintf(" %s  %-10s %s  %s",
				o.OrderNumber, o.Status, formatPrice(o.TotalAmount), o.VendorName)
			if o.TrackingNumber != "" {
				line += "  ⇢ " + o.TrackingNumber
			}
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show [order number]",
	Short: "Show one order and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := openOrderSink(cmd)
		if err != nil {
			return err
		}
		defer sink.Close()

		orders, err := sink.ListOrders(cmd.Context(), "", "")
		if err != nil {
			return err
		}
		for _, o := range orders {
			if o.OrderNumber != args[0] {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s  %s  %s (%s)\n",
				o.OrderNumber, o.Status, formatPrice(o.TotalAmount), o.VendorName)
			items, err := sink.OrderItems(cmd.Context(), o.ID)
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(os.Stdout, "  %d × %s @ %s = %s\n",
					item.Quantity, item.ProductName,
					formatPrice(item.UnitPrice), formatPrice(item.Subtotal))
			}
			if o.ShippingFee > 0 {
				fmt.Fprintf(os.Stdout, "  shipping %s\n", formatPrice(o.ShippingFee))
			}
			return nil
		}
		return fmt.Errorf("%w: %s", db.ErrOrderNotFound, args[0])
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status [order number] [status]",
	Short: "Move an order through pending/confirmed/shipped/delivered/cancelled",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := openOrderSink(cmd)
		if err != nil {
			return err
		}
		defer sink.Close()

		tracking, _ := cmd.Flags().GetString("tracking")
		if err := sink.UpdateOrderStatus(cmd.Context(), args[0], args[1], tracking); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Order %s is now %s.\n", args[0], strings.ToLower(args[1]))
		return nil
	},
}

var ordersRemoveCmd = &cobra.Command{
	Use:   "remove [order number]",
	Short: "Delete an order and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := openOrderSink(cmd)
		if err != nil {
			return err
		}
		defer sink.Close()

		if err := sink.DeleteOrder(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Removed.")
		return nil
	},
}

var ordersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize orders by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := openOrderSink(cmd)
		if err != nil {
			return err
		}
		defer sink.Close()

		orders, err := sink.ListOrders(cmd.Context(), "", "")
		if err != nil {
			return err
		}
		stats := db.SummarizeOrders(orders)
		fmt.Fprintf(os.Stdout, "%d orders, %s total\n", stats.Total, formatPrice(stats.TotalAmount))
		fmt.Fprintf(os.Stdout, " pending %d | confirmed %d | shipped %d | delivered %d | cancelled %d\n",
			stats.Pending, stats.Confirmed, stats.Shipped, stats.Delivered, stats.Cancelled)
		return nil
	},
}

func openOrderSink(cmd *cobra.Command) (*db.Sink, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("orders need a configured database (set DATABASE_URL)")
	}
	return db.Open(cmd.Context(), cfg.DatabaseURL, log)
}

// parseOrderItem parses "name:quantity:unitPrice". Names may contain
// colons; the last two fields are always quantity and price.
func parseOrderItem(raw string) (db.OrderItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 {
		return db.OrderItem{}, fmt.Errorf("item %q: want name:quantity:unitPrice", raw)
	}
	name := strings.TrimSpace(strings.Join(parts[:len(parts)-2], ":"))
	qty, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-2]))
	if err != nil || qty <= 0 {
		return db.OrderItem{}, fmt.Errorf("item %q: bad quantity", raw)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
	if err != nil || price <= 0 {
		return db.OrderItem{}, fmt.Errorf("item %q: bad unit price", raw)
	}
	if name == "" {
		return db.OrderItem{}, fmt.Errorf("item %q: empty name", raw)
	}
	return db.OrderItem{ProductName: name, Quantity: qty, UnitPrice: price}, nil
}

func init() {
	ordersCreateCmd.Flags().String("vendor", "", "Vendor the order is placed with")
	ordersCreateCmd.Flags().StringArray("item", nil, "Order line as name:quantity:unitPrice (repeatable)")
	ordersCreateCmd.Flags().Float64("shipping", 0, "Shipping fee")
	ordersCreateCmd.Flags().String("payment", "", "Payment method")
	ordersCreateCmd.Flags().String("notes", "", "Free-form notes")
	ordersListCmd.Flags().String("status", "", "Filter by status")
	ordersListCmd.Flags().String("vendor", "", "Filter by vendor")
	ordersStatusCmd.Flags().String("tracking", "", "Tracking number to attach")
	ordersCmd.AddCommand(ordersCreateCmd, ordersListCmd, ordersShowCmd,
		ordersStatusCmd, ordersRemoveCmd, ordersStatsCmd)
	rootCmd.AddCommand(ordersCmd)
}
