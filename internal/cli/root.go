package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordduel",
		Short: "Real-time two-player word duel server",
		Long: `wordduel is the game server for a head-to-head word guessing duel.

Players connect over a websocket, challenge each other by username, and race
to guess a shared secret word. Stats are persisted per player.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (optional)")

	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
