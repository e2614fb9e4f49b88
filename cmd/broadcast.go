package cmd

import (
	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/api"
	"github.com/waveformhq/wavetray/internal/errors"
)

var (
	sendTitle    string
	sendMessage  string
	sendPriority string
	sendType     string
	sendEmail    bool
	sendPush     bool
	sendInApp    bool
)

// broadcastCmd represents the broadcast command
var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Send a notification to all users (admin)",
	Long: `Send a notification to every user. Requires an admin token.

Delivery channels default to in-app only; enable email or push explicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := buildSendRequest()
		if err := newAPIClient().Broadcast(cmd.Context(), req); err != nil {
			return err
		}
		errors.NewDefaultCLIHandler().Success("Broadcast sent")
		return nil
	},
}

func init() {
	registerSendFlags(broadcastCmd)
	rootCmd.AddCommand(broadcastCmd)
}

func registerSendFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sendTitle, "title", "t", "", "notification title")
	cmd.Flags().StringVarP(&sendMessage, "message", "m", "", "notification message")
	cmd.Flags().StringVarP(&sendPriority, "priority", "p", "normal", "priority (low, normal, high, urgent)")
	cmd.Flags().StringVar(&sendType, "type", "admin_message", "notification type (e.g. system_alert, admin_message)")
	cmd.Flags().BoolVar(&sendEmail, "email", false, "also deliver by email")
	cmd.Flags().BoolVar(&sendPush, "push", false, "also deliver by mobile push")
	cmd.Flags().BoolVar(&sendInApp, "in-app", true, "deliver in-app")
}

func buildSendRequest() api.SendRequest {
	return api.SendRequest{
		Title:            sendTitle,
		Message:          sendMessage,
		Priority:         sendPriority,
		NotificationType: sendType,
		SendEmail:        sendEmail,
		SendPush:         sendPush,
		SendInApp:        sendInApp,
	}
}
