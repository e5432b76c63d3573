package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/batch"
	"github.com/junwei-lu/pricelens/internal/rank"
	"github.com/junwei-lu/pricelens/internal/ui"
)

var batchCmd = &cobra.Command{
	Use:   "batch [keyword ...]",
	Short: "Compare prices for many keywords in one run",
	Long:  "Searches each keyword across all platforms, one keyword at a time. Reads keywords from arguments or, with --file, one per line.",
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().String("file", "", "File with one keyword per line")
	batchCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	keywords := args
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read keyword file: %w", err)
		}
		keywords = append(keywords, strings.Split(string(data), "\n")...)
	} else if len(keywords) == 0 {
		// No args, no file: read keywords from stdin, one per line.
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		keywords = strings.Split(string(data), "\n")
	}
	keywords = batch.Prepare(keywords)
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords given")
	}

	agg := initEngine()
	format, _ := cmd.Flags().GetString("format")

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Batch comparing %d keywords...", len(keywords)))
	orch := batch.New(agg, logrus.NewEntry(log), batch.WithObserver(func(item batch.Item, p batch.Progress) {
		spin.Update(fmt.Sprintf("[%d/%d] %s: %s", p.Done, p.Total, item.Keyword, item.Status))
	}))
	summary, err := orch.Run(cmd.Context(), keywords, cfg.Platforms, nil)
	if err != nil {
		spin.Stop()
		return fmt.Errorf("batch aborted: %w", err)
	}
	spin.StopWith(fmt.Sprintf("Searched %d keywords.", len(summary.Items)))

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(os.Stdout, "Batch done: %d completed, %d failed, %d products\n\n",
		summary.Completed, summary.Failed, len(summary.Results))
	for _, item := range summary.Items {
		if item.Status == batch.StatusError {
			fmt.Fprintf(os.Stdout, " ✗ %s: %s\n", item.Keyword, item.Err)
			continue
		}
		cheapest := "no results"
		if ranked := rank.Rank(item.Results, "price", ""); len(ranked) > 0 {
			cheapest = fmt.Sprintf("cheapest %s on %s", formatPrice(ranked[0].Price), ranked[0].Platform)
		}
		fmt.Fprintf(os.Stdout, " ✓ %s: %d results, %s\n", item.Keyword, len(item.Results), cheapest)
	}
	return nil
}
