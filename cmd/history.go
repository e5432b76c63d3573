package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past searches",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := historyStore().List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "No search history.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, " %s  %-20s %d results on %s\n",
				e.SearchedAt.Format("2006-01-02 15:04"), e.Keyword,
				e.ResultCount, strings.Join(e.Platforms, ", "))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := historyStore().Clear(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "History cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
