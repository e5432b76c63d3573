package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/junwei-lu/pricelens/internal/store"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Manage the supplier contact book",
}

var vendorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vendors, err := vendorsStore().List()
		if err != nil {
			return err
		}
		if len(vendors) == 0 {
			fmt.Fprintln(os.Stdout, "No vendors saved.")
			return nil
		}
		for _, v := range vendors {
			line := " " + v.Name
			if v.Platform != "" {
				line += " (" + v.Platform + ")"
			}
			if v.ContactPerson != "" {
				line += "  |  " + v.ContactPerson
			}
			if v.Email != "" {
				line += "  |  " + v.Email
			}
			fmt.Fprintln(os.Stdout, line)
			if v.Notes != "" {
				fmt.Fprintf(os.Stdout, "    %s\n", v.Notes)
			}
		}
		return nil
	},
}

var vendorsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or update a vendor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, _ := cmd.Flags().GetString("platform")
		contact, _ := cmd.Flags().GetString("contact")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		notes, _ := cmd.Flags().GetString("notes")

		err := vendorsStore().Add(store.Vendor{
			Name:          args[0],
			Platform:      platform,
			ContactPerson: contact,
			Email:         email,
			Phone:         phone,
			Notes:         notes,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Saved vendor %s.\n", args[0])
		return nil
	},
}

var vendorsRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a vendor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := vendorsStore().Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(os.Stdout, "No such vendor.")
			return nil
		}
		fmt.Fprintln(os.Stdout, "Removed.")
		return nil
	},
}

func init() {
	vendorsAddCmd.Flags().String("platform", "", "Platform the vendor sells on")
	vendorsAddCmd.Flags().String("contact", "", "Contact person")
	vendorsAddCmd.Flags().String("email", "", "Contact email")
	vendorsAddCmd.Flags().String("phone", "", "Contact phone")
	vendorsAddCmd.Flags().String("notes", "", "Free-form notes")
	vendorsCmd.AddCommand(vendorsListCmd, vendorsAddCmd, vendorsRemoveCmd)
	rootCmd.AddCommand(vendorsCmd)
}
