package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/rank"
)

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(products []models.Product) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. [%s] %s\n", i+1, p.Platform, p.Name)

		// Price line with optional original price and discount
		priceLine := "    Price: " + formatPrice(p.Price)
		if d := rank.Discount(p); d > 0 {
			priceLine += fmt.Sprintf("  (was %s, -%d%%)", formatPrice(p.OriginalPrice), d)
		}
		if p.ShippingFee == 0 {
			priceLine += "  |  Free shipping"
		} else if p.ShippingFee > 0 {
			priceLine += "  |  Shipping: " + formatPrice(p.ShippingFee)
		}
		fmt.Fprintln(os.Stdout, priceLine)

		var meta []string
		if p.Rating > 0 {
			meta = append(meta, fmt.Sprintf("%.1f★ (%d)", p.Rating, p.ReviewCount))
		}
		if p.SalesVolume > 0 {
			meta = append(meta, fmt.Sprintf("%d sold", p.SalesVolume))
		}
		if p.VendorName != "" {
			meta = append(meta, p.VendorName)
		}
		if p.StockStatus == models.StockOutOfStock {
			meta = append(meta, "OUT OF STOCK")
		}
		if len(meta) > 0 {
			fmt.Fprintf(os.Stdout, "    %s\n", strings.Join(meta, "  |  "))
		}
		fmt.Fprintf(os.Stdout, "    %s\n", cleanURL(p.ProductURL))
	}
}

// printStats prints the cross-platform summary line for a comparison.
func printStats(stats rank.Stats) {
	fmt.Fprintf(os.Stdout, "\n Lowest price: %s  |  Top sales: %d  |  Platforms: %d\n",
		formatPrice(stats.MinPrice), stats.MaxSales, stats.PlatformCount)
}

// formatPrice formats a price as "NT$1,234" (whole dollars) or
// "NT$1,234.50" when cents are present.
func formatPrice(f float64) string {
	n := int64(f)
	s := fmt.Sprintf("%d", n)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if frac := f - float64(n); frac >= 0.005 {
		return fmt.Sprintf("NT$%s.%02d", s, int(frac*100+0.5))
	}
	return "NT$" + s
}

// cleanURL strips tracking query params and returns just the product page URL.
func cleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
