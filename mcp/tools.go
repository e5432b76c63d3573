package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/junwei-lu/pricelens/internal/aggregate"
	"github.com/junwei-lu/pricelens/internal/batch"
	"github.com/junwei-lu/pricelens/internal/models"
	"github.com/junwei-lu/pricelens/internal/platform"
	"github.com/junwei-lu/pricelens/internal/rank"
)

func registerTools(s *server.MCPServer, deps Deps) {
	// search_products
	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search products by keyword across e-commerce platforms"),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Search keyword"),
		),
		mcp.WithString("platforms",
			mcp.Description("Comma-separated platform ids (default: all)"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order: price, sales, rating, relevance, discount (default: price)"),
		),
		mcp.WithNumber("min_price",
			mcp.Description("Minimum price filter"),
		),
		mcp.WithNumber("max_price",
			mcp.Description("Maximum price filter"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Products per platform (default: 20)"),
		),
	)
	s.AddTool(searchTool, deps.handleSearchProducts)

	// compare_prices
	compareTool := mcp.NewTool("compare_prices",
		mcp.WithDescription("Compare prices for one product across all platforms, cheapest first"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Product name"),
		),
	)
	s.AddTool(compareTool, deps.handleComparePrices)

	// product_from_url
	urlTool := mcp.NewTool("product_from_url",
		mcp.WithDescription("Fetch full product details from a marketplace product URL"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Product page URL"),
		),
	)
	s.AddTool(urlTool, deps.handleProductFromURL)

	// batch_compare
	batchTool := mcp.NewTool("batch_compare",
		mcp.WithDescription("Compare prices for many keywords sequentially (max 100)"),
		mcp.WithString("keywords",
			mcp.Required(),
			mcp.Description("Comma-separated keywords"),
		),
	)
	s.AddTool(batchTool, deps.handleBatchCompare)

	// list_platforms
	platformsTool := mcp.NewTool("list_platforms",
		mcp.WithDescription("List the supported e-commerce platforms"),
	)
	s.AddTool(platformsTool, deps.handleListPlatforms)
}

func (d Deps) handleSearchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword := request.GetString("keyword", "")
	if keyword == "" {
		return mcp.NewToolResultError("keyword is required"), nil
	}

	platforms := d.Platforms
	if v := request.GetString("platforms", ""); v != "" {
		platforms = splitCSV(v)
	}
	sortBy := request.GetString("sort", models.SortByPrice)

	filters := &models.SearchFilters{
		PriceMin: request.GetFloat("min_price", 0),
		PriceMax: request.GetFloat("max_price", 0),
		SortBy:   sortBy,
		Limit:    request.GetInt("limit", 20),
	}

	results, err := d.Aggregator.SearchAll(ctx, keyword, platforms, filters)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
	}

	ranked := rank.Rank(aggregate.Flatten(results), sortBy, "")
	data, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (d Deps) handleComparePrices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	ranked, err := d.Aggregator.ComparePrices(ctx, name, d.Platforms)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison error: %v", err)), nil
	}

	payload := struct {
		Stats    rank.Stats       `json:"stats"`
		Products []models.Product `json:"products"`
	}{rank.Summarize(ranked), ranked}

	data, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (d Deps) handleProductFromURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	product, err := d.Aggregator.ProductFromURL(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detail error: %v", err)), nil
	}
	if product == nil {
		return mcp.NewToolResultText("null"), nil
	}

	data, _ := json.MarshalIndent(product, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (d Deps) handleBatchCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("keywords", "")
	keywords := splitCSV(raw)
	if len(keywords) == 0 {
		return mcp.NewToolResultError("keywords is required"), nil
	}

	orch := batch.New(d.Aggregator, logrus.NewEntry(logrus.StandardLogger()))
	summary, err := orch.Run(ctx, keywords, d.Platforms, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (d Deps) handleListPlatforms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	var out []entry
	for _, id := range platform.List() {
		c, err := platform.Get(id)
		if err != nil {
			continue
		}
		out = append(out, entry{ID: id, Name: c.Platform()})
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
