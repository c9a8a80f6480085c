package main

import (
	"fmt"
	"os"

	"inv-go/internal/app"
	"inv-go/internal/config"

	"github.com/spf13/cobra"
)

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.BaseDir)
		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir: %s\n", defaults.BaseDir)
		fmt.Printf("  data:    %s\n", defaults.DataDir)
		fmt.Printf("  log:     %s\n", defaults.LogDir)
		fmt.Printf("  keys:    %s\n", defaults.KeyDir)
		fmt.Printf("  backups: %s\n", defaults.BackupDir)
		fmt.Println("Run 'inv config keys' to create the backup encryption keys.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		a, err := newApp("ListConfig")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		return a.WriteConfig(os.Stdout)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the backup encryption keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readNewSecret("New passphrase: ")
		if err != nil {
			return err
		}
		if err := a.Operation().Fail(a.SetupKeys(pass)); err != nil {
			return fmt.Errorf("setting up keys: %w", err)
		}
		fmt.Println("Encryption keys created.")
		return nil
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault [NAME]",
	Short: "Check that a vault is reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ValidateVault")
		if err != nil {
			return err
		}
		defer a.Close()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		v, err := a.Vault(name)
		if err != nil {
			return err
		}
		if err := v.ValidateSetup(); err != nil {
			return fmt.Errorf("vault check failed: %w", err)
		}
		fmt.Println("Vault OK.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configVaultCmd)
	rootCmd.AddCommand(configCmd)
}
