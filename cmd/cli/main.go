package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	token   string
	teamIDs string
)

var rootCmd = &cobra.Command{
	Use:   "match-ladder-cli",
	Short: "A CLI to interact with the match-ladder server",
	Long: `A command-line interface for making requests to the various endpoints
of the match-ladder application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ADMIN_TOKEN"), "Admin bearer token")
	rootCmd.PersistentFlags().StringVar(&teamIDs, "team-ids", "", "Comma separated team ids the caller acts for")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
