package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meetctl",
	Short: "Debug client for the meeting signaling server",
	Long: `meetctl joins a team room over the signaling socket and prints every
event the server pushes, or mints bearer tokens for the meeting API.`,
}

func main() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(newJoinCmd(), newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
