package main

import (
	"fmt"
	"os"
	"path/filepath"

	"inv-go/internal/app"
	"inv-go/internal/model"
	"inv-go/internal/report"

	"github.com/spf13/cobra"
)

// writeOutput creates path atomically and fills it with write.
func writeOutput(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".inv-export-*")
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	tmpPath := tmp.Name()
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export json|csv|xlsx|sips",
	Short: "Export the inventory to a file",
	Long: "Export the inventory. json is a full snapshot that can be imported again\n" +
		"(and counts as a backup), csv is a flat table of SIPs and log entries, xlsx is\n" +
		"a workbook with weekly and summary sheets, sips is a CSV of SIPs for --range.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{app.FormatJSON, app.FormatCSV, app.FormatWorkbook, app.FormatRecords},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		rangeName, _ := cmd.Flags().GetString("range")
		r, err := report.ParseRange(rangeName)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		if out == "-" {
			return a.Operation().Fail(a.Export(os.Stdout, format, r))
		}
		if out == "" {
			out = a.ExportName(format, r)
		}
		err = writeOutput(out, func(f *os.File) error { return a.Export(f, format, r) })
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", out)
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the inventory with a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Import")
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return a.Operation().Fail(fmt.Errorf("opening import: %w", err))
		}
		defer f.Close()

		imported := false
		err = confirm(a, "Importing replaces ALL current data. Continue?", func() error {
			if err := a.Import(f); err != nil {
				return err
			}
			imported = true
			return nil
		})
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		if imported {
			fmt.Printf("Imported %s\n", args[0])
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Store a snapshot in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.Backup(vaultName)
		if err := a.Operation().Fail(err); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Backed up to %s\n", name)
		return nil
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backups stored in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("ListBackups")
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.ListBackups(vaultName)
		if err != nil {
			return a.Operation().Fail(err)
		}
		if len(names) == 0 {
			fmt.Println("No backups.")
			return nil
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Replace the inventory with a backup from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		restored := false
		err = confirm(a, fmt.Sprintf("Restoring %s replaces ALL current data. Continue?", args[0]), func() error {
			if err := a.Restore(vaultName, args[0], func() (string, error) {
				return readSecret("Passphrase: ")
			}); err != nil {
				return err
			}
			restored = true
			return nil
		})
		if err := a.Operation().Fail(err); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		if restored {
			fmt.Printf("Restored %s\n", args[0])
		}
		return nil
	},
}

// reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and start over",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Reset")
		if err != nil {
			return err
		}
		defer a.Close()

		done := false
		err = confirm(a, "Delete ALL data (stock, SIPs, logs, settings)?", func() error {
			if err := a.Service().Reset(); err != nil {
				return err
			}
			done = true
			return nil
		})
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		if done {
			fmt.Println("All data deleted.")
		}
		return nil
	},
}

// settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View or change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		changed := flags.Changed("color") || flags.Changed("dark") || flags.Changed("protect") || flags.Changed("new-password")

		a, err := newApp("Settings")
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.Service().Settings()
		if changed {
			next := model.Settings{
				PrimaryColor:    s.PrimaryColor,
				DarkEnabled:     s.DarkEnabled,
				PasswordEnabled: s.PasswordEnabled,
			}
			if flags.Changed("color") {
				next.PrimaryColor, _ = flags.GetString("color")
			}
			if flags.Changed("dark") {
				next.DarkEnabled, _ = flags.GetBool("dark")
			}
			if flags.Changed("protect") {
				next.PasswordEnabled, _ = flags.GetBool("protect")
			}
			if flags.Changed("new-password") {
				pw, err := readNewSecret("New password: ")
				if err != nil {
					return a.Operation().Fail(err)
				}
				next.Password = pw
			}
			updated, err := a.Service().UpdateSettings(next)
			if err := a.Operation().Fail(err); err != nil {
				return err
			}
			s = updated
		}

		fmt.Printf("Color:     %s\n", s.PrimaryColor)
		fmt.Printf("Dark:      %t\n", s.DarkEnabled)
		fmt.Printf("Protected: %t\n", a.Service().Locked())
		if s.PasswordEnabled && s.Password == "" {
			fmt.Println("Warning: protection is on but no password is set. Use --new-password.")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: dated name in the current directory, - for stdout)")
	exportCmd.Flags().String("range", string(report.RangeAll), "Records for the sips format: today, week or all")
	backupCmd.Flags().String("vault", "", "Vault name (default: first configured vault)")
	backupsCmd.Flags().String("vault", "", "Vault name (default: first configured vault)")
	restoreCmd.Flags().String("vault", "", "Vault name (default: first configured vault)")
	settingsCmd.Flags().String("color", "", "Primary color, e.g. #1e3a8a")
	settingsCmd.Flags().Bool("dark", false, "Dark mode")
	settingsCmd.Flags().Bool("protect", false, "Require a password for every command")
	settingsCmd.Flags().Bool("new-password", false, "Prompt for a new password")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(settingsCmd)
}
