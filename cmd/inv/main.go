package main

import (
	"errors"
	"fmt"
	"os"

	"inv-go/internal/app"
	"inv-go/internal/config"
	"inv-go/internal/inv"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	verbose      bool
	assumeYes    bool
	passwordFlag string
)

// newApp reads the config, creates an InvApp and unlocks the password gate.
// operation identifies the CLI command being run (e.g. "CreateRecord", "Backup").
// The caller must defer app.Close().
func newApp(operation string) (*app.InvApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewInvApp(cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	if err := unlock(a.Service()); err != nil {
		a.Operation().Fail(err)
		a.Close()
		return nil, err
	}
	return a, nil
}

// unlock checks the password gate. The password comes from --password,
// INV_PASSWORD or a terminal prompt, in that order.
func unlock(svc *inv.Service) error {
	if !svc.Locked() {
		return nil
	}
	pw := passwordFlag
	if pw == "" {
		pw = os.Getenv("INV_PASSWORD")
	}
	if pw == "" {
		var err error
		if pw, err = readSecret("Password: "); err != nil {
			return err
		}
	}
	return svc.Authorize(pw)
}

// confirm runs action behind a yes/no prompt unless --yes was given.
func confirm(a *app.InvApp, message string, action func() error) error {
	err := a.Confirm(message, action, func(prompt string) (bool, error) {
		if assumeYes {
			return true, nil
		}
		return askYesNo(prompt)
	})
	if errors.Is(err, inv.ErrDeclined) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}

// warnBackupDue prints the weekly backup reminder.
func warnBackupDue(a *app.InvApp) {
	if a.Service().BackupDue() {
		fmt.Fprintln(os.Stderr, "Reminder: no backup in the last 7 days. Run 'inv backup' or 'inv export json'.")
	}
}

var rootCmd = &cobra.Command{
	Use:           "inv",
	Short:         "Router and cable inventory with a SIP allocation log",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Echo log lines to stderr")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&passwordFlag, "password", "", "Password for a protected inventory (or set INV_PASSWORD)")
}
