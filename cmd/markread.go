package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/errors"
)

var markReadAll bool

// markReadCmd represents the mark-read command
var markReadCmd = &cobra.Command{
	Use:   "mark-read [ID]",
	Short: "Mark a notification as read",
	Long: `Mark a notification as read by ID, or all notifications with --all.
Marking an already read notification is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMarkRead,
}

func init() {
	markReadCmd.Flags().BoolVar(&markReadAll, "all", false, "mark all notifications as read")
	rootCmd.AddCommand(markReadCmd)
}

func runMarkRead(cmd *cobra.Command, args []string) error {
	client := newAPIClient()
	handler := errors.NewDefaultCLIHandler()

	if markReadAll {
		if len(args) > 0 {
			return fmt.Errorf("cannot combine --all with a notification ID")
		}
		if err := client.MarkAllAsRead(cmd.Context()); err != nil {
			return err
		}
		handler.Success("All notifications marked as read")
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a notification ID or --all is required")
	}
	id := args[0]
	if err := client.MarkAsRead(cmd.Context(), id); err != nil {
		return err
	}
	handler.Success(fmt.Sprintf("Notification %s marked as read", id))
	return nil
}
