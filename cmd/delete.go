package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/errors"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a notification",
	Long:  `Delete a specific notification by ID. Deleting an unknown ID is a no-op.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if err := newAPIClient().DeleteNotification(cmd.Context(), id); err != nil {
			return err
		}
		errors.NewDefaultCLIHandler().Success(fmt.Sprintf("Notification %s deleted", id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
