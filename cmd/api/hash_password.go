package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for seeding accounts by hand",
	Args:  cobra.ExactArgs(1),
	RunE:  runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	pm := auth.NewPasswordManager(cfg)
	hash, err := pm.HashPassword(args[0])
	if err != nil {
		return err
	}
	if err := pm.VerifyPassword(args[0], hash); err != nil {
		return fmt.Errorf("hash verification failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
