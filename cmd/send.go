package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/errors"
)

var sendUserID string

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a notification to one user (admin)",
	Long:  `Send a notification to a single user by ID. Requires an admin token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendUserID == "" {
			return fmt.Errorf("--user is required")
		}
		req := buildSendRequest()
		if err := newAPIClient().SendToUser(cmd.Context(), sendUserID, req); err != nil {
			return err
		}
		errors.NewDefaultCLIHandler().Success(fmt.Sprintf("Notification sent to user %s", sendUserID))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendUserID, "user", "u", "", "target user ID")
	registerSendFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}
