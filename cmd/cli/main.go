package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	dryRun  bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ladder-cli",
	Short: "A CLI to interact with the padel-ladder server",
	Long: `A command-line interface for making requests to the padel-ladder
server, plus an offline simulator for the rating engine.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server not to persist anything")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Ask the server for debug logging of the request")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
