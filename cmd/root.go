package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront backend CLI",
	Long:  "Management commands for the storefront backend: product imports, migrations and cron.",
}

// Execute runs the root command. Applies custom-registered commands first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
