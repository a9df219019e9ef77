// cmd/api/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the API server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront cart and item detail API",
	Long: `Storefront serves the cart page, item detail page and order API.

Available subcommands:
  serve   - Connect, migrate and serve HTTP (default)
  migrate - Run database migrations and exit`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
