package cmd

import (
	"github.com/spf13/cobra"

	"github.com/waveformhq/wavetray/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wavetray version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("wavetray " + version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
