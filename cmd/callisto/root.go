package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - streaming relay for AI completion services",
	Long: `Callisto relays chat and summarization requests from HTTP clients to an
AI completion service, streaming incremental content back as server-sent
events.

The upstream model path is selected per request: the hosted default
endpoint, or a bring-your-own-model Azure OpenAI deployment authenticated
with managed-identity bearer tokens.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
