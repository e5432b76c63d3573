package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms",
	RunE: func(cmd *cobra.Command, args []string) error {
		initEngine()
		for _, id := range platform.List() {
			c, err := platform.Get(id)
			if err != nil {
				continue
			}
			fmt.Fprintf(os.Stdout, " %-8s %s\n", id, c.Platform())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
