package main

import (
	"fmt"
	"strconv"

	"inv-go/internal/inv"

	"github.com/spf13/cobra"
)

// log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and prune the event log",
}

var logLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List log entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDay(cmd, "to")
		if err != nil {
			return err
		}
		text, _ := cmd.Flags().GetString("search")
		noSips, _ := cmd.Flags().GetBool("no-sips")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("QueryLogs")
		if err != nil {
			return err
		}
		defer a.Close()

		logs := a.Service().QueryLogs(inv.LogFilter{
			Text: text, From: from, To: to, ExcludeRecords: noSips, Limit: limit,
		})
		if len(logs) == 0 {
			fmt.Println("No log entries.")
			return nil
		}
		for _, l := range logs {
			delta := ""
			if l.Delta != 0 {
				delta = fmt.Sprintf("%+d", l.Delta)
			}
			fmt.Printf("%s  %-3s  %5s  %s\n", l.CreatedAt.Local().Format(stampLayout), l.Kind, delta, l.Message)
		}
		return nil
	},
}

var logPruneCmd = &cobra.Command{
	Use:   "prune COUNT",
	Short: "Delete the most recent non-SIP log entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil || count <= 0 {
			return fmt.Errorf("count must be a positive integer, got %q", args[0])
		}

		a, err := newApp("DeleteRecentLogs")
		if err != nil {
			return err
		}
		defer a.Close()

		n := a.Service().DeletableLogs(count)
		if n == 0 {
			return a.Operation().Fail(inv.ErrNothingToDelete)
		}

		removed := 0
		err = confirm(a, fmt.Sprintf("Delete the %d most recent log entries? SIP entries are kept.", n), func() error {
			var err error
			removed, err = a.Service().DeleteRecentLogs(count)
			return err
		})
		if err := a.Operation().Fail(err); err != nil {
			return err
		}
		if removed > 0 {
			fmt.Printf("Deleted %d log entries.\n", removed)
		}
		return nil
	},
}

func init() {
	logLsCmd.Flags().StringP("search", "s", "", "Filter by message text")
	logLsCmd.Flags().String("from", "", "First day (YYYY-MM-DD)")
	logLsCmd.Flags().String("to", "", "Last day (YYYY-MM-DD), inclusive")
	logLsCmd.Flags().Bool("no-sips", false, "Hide SIP entries")
	logLsCmd.Flags().IntP("limit", "n", 50, "Maximum number of entries to show")

	logCmd.AddCommand(logLsCmd)
	logCmd.AddCommand(logPruneCmd)
	rootCmd.AddCommand(logCmd)
}
