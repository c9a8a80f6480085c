package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inv-go/internal/inv"
	"inv-go/internal/model"

	"github.com/spf13/cobra"
)

const (
	dayLayout   = "2006-01-02"
	stampLayout = "2006-01-02 15:04"
)

// parseDay parses a --from/--to flag value as a local calendar day.
func parseDay(cmd *cobra.Command, flag string) (*time.Time, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dayLayout, v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, v)
	}
	return &t, nil
}

// resolveRecord finds a record by id, falling back to its SIP number.
func resolveRecord(svc *inv.Service, ref string) (*model.Record, error) {
	rec, err := svc.FindRecord(ref)
	if err == nil || !errors.Is(err, inv.ErrNotFound) {
		return rec, err
	}
	number := inv.DigitsOnly(ref)
	if number == "" {
		return nil, err
	}
	snap := svc.Snapshot()
	for i := len(snap.Records) - 1; i >= 0; i-- {
		if snap.Records[i].Number == number {
			return &snap.Records[i], nil
		}
	}
	return nil, err
}

func printRecords(recs []model.Record) {
	for _, r := range recs {
		fmt.Printf("%s  %-15s  %s  %s\n", r.ID, r.Number, r.CreatedAt.Local().Format(stampLayout), r.Note)
	}
}

// sip command
var sipCmd = &cobra.Command{
	Use:   "sip",
	Short: "Manage SIP allocations",
}

var sipAddCmd = &cobra.Command{
	Use:   "add NUMBER [NOTE...]",
	Short: "Allocate a SIP number (uses one router)",
	Long: "Allocate a SIP number. One router is taken from stock; if the note starts\n" +
		"with a number (e.g. \"15m\"), that many meters of cable are deducted as well.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number := inv.DigitsOnly(args[0])
		note := strings.Join(args[1:], " ")

		var at *time.Time
		if v, _ := cmd.Flags().GetString("at"); v != "" {
			t, err := time.ParseInLocation(stampLayout, v, time.Local)
			if err != nil {
				return fmt.Errorf("--at: want %q, got %q", stampLayout, v)
			}
			at = &t
		}

		a, err := newApp("CreateRecord")
		if err != nil {
			return err
		}
		defer a.Close()

		var rec *model.Record
		err = confirm(a, fmt.Sprintf("Add SIP %s?", number), func() error {
			var err error
			rec, err = a.Service().CreateRecord(number, note, at)
			return err
		})
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		if rec != nil {
			fmt.Printf("Added SIP %s (%s). Routers in stock: %d\n", rec.Number, rec.ID, a.Service().Inventory().Stock)
		}
		warnBackupDue(a)
		return nil
	},
}

var sipEditCmd = &cobra.Command{
	Use:   "edit ID|NUMBER",
	Short: "Change the number or note of a SIP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UpdateRecord")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := resolveRecord(a.Service(), args[0])
		if err != nil {
			return a.Operation().Fail(err)
		}
		number, note := rec.Number, rec.Note
		if cmd.Flags().Changed("number") {
			v, _ := cmd.Flags().GetString("number")
			number = inv.DigitsOnly(v)
		}
		if cmd.Flags().Changed("note") {
			note, _ = cmd.Flags().GetString("note")
		}

		updated, err := a.Service().UpdateRecord(rec.ID, number, note)
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		fmt.Printf("Updated SIP %s\n", updated.Number)
		return nil
	},
}

var sipRmCmd = &cobra.Command{
	Use:   "rm ID|NUMBER",
	Short: "Delete a SIP (returns its router to stock)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteRecord")
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := resolveRecord(a.Service(), args[0])
		if err != nil {
			return a.Operation().Fail(err)
		}

		deleted := false
		err = confirm(a, fmt.Sprintf("Delete SIP %s?", rec.Number), func() error {
			_, err := a.Service().DeleteRecord(rec.ID)
			deleted = err == nil
			return err
		})
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		if deleted {
			fmt.Printf("Deleted SIP %s. Routers in stock: %d\n", rec.Number, a.Service().Inventory().Stock)
		}
		return nil
	},
}

var sipLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List SIPs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDay(cmd, "to")
		if err != nil {
			return err
		}
		number, _ := cmd.Flags().GetString("number")
		note, _ := cmd.Flags().GetString("note")

		a, err := newApp("QueryRecords")
		if err != nil {
			return err
		}
		defer a.Close()

		recs := a.Service().QueryRecords(inv.RecordFilter{Number: number, Note: note, From: from, To: to})
		if len(recs) == 0 {
			fmt.Println("No SIPs found.")
			return nil
		}
		printRecords(recs)
		if len(recs) == inv.MaxRecordResults {
			fmt.Printf("(showing the newest %d; narrow the filter to see more)\n", inv.MaxRecordResults)
		}
		return nil
	},
}

func init() {
	sipAddCmd.Flags().String("at", "", "Backdate the SIP (\"YYYY-MM-DD HH:MM\", local time)")
	sipEditCmd.Flags().String("number", "", "New SIP number")
	sipEditCmd.Flags().String("note", "", "New note")
	sipLsCmd.Flags().String("number", "", "Filter by number substring")
	sipLsCmd.Flags().String("note", "", "Filter by note substring")
	sipLsCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	sipLsCmd.Flags().String("to", "", "Last day (YYYY-MM-DD), inclusive")

	sipCmd.AddCommand(sipAddCmd)
	sipCmd.AddCommand(sipEditCmd)
	sipCmd.AddCommand(sipRmCmd)
	sipCmd.AddCommand(sipLsCmd)
	rootCmd.AddCommand(sipCmd)
}
