package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/specter/cmd/cli/grant"
	"github.com/myrjola/specter/cmd/cli/seed"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(seed.Group)
	rootCmd.AddCommand(seed.Cases)
	rootCmd.AddGroup(grant.Group)
	rootCmd.AddCommand(grant.Entitlement)
}

var rootCmd = &cobra.Command{
	Use:  "specter-cli",
	Long: `Command line utilities for the SPECTER case archive`,
	Run: func(_ *cobra.Command, _ []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
