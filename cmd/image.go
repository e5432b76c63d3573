package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/aggregate"
	"github.com/junwei-lu/pricelens/internal/rank"
	"github.com/junwei-lu/pricelens/internal/ui"
	"github.com/junwei-lu/pricelens/internal/vision"
)

var imageCmd = &cobra.Command{
	Use:   "image [photo path]",
	Short: "Recognize a product photo and search for it",
	Args:  cobra.ExactArgs(1),
	RunE:  runImage,
}

func init() {
	imageCmd.Flags().Bool("keywords-only", false, "Print recognized keywords without searching")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(args[0]))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	recognizer := vision.New(&http.Client{}, log, vision.Config{
		OpenRouterKey: cfg.OpenRouterKey,
		OpenAIKey:     cfg.OpenAIKey,
		Model:         cfg.VisionModel,
	})

	spin := ui.NewSpinner()
	spin.Start("Recognizing product...")
	keywords, err := recognizer.Keywords(cmd.Context(), data, mimeType)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Recognized: %s\n", strings.Join(keywords, ", "))

	if only, _ := cmd.Flags().GetBool("keywords-only"); only {
		return nil
	}

	agg := initEngine()
	spin.Start(fmt.Sprintf("Searching '%s'...", keywords[0]))
	results, err := agg.SearchAll(cmd.Context(), keywords[0], cfg.Platforms, nil)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printProductsTable(rank.Rank(aggregate.Flatten(results), "price", ""))
	return nil
}
