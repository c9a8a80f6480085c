package main

import (
	"fmt"
	"strconv"

	"inv-go/internal/inv"
	"inv-go/internal/model"

	"github.com/spf13/cobra"
)

// status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show router and cable stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Status")
		if err != nil {
			return err
		}
		defer a.Close()

		svc := a.Service()
		routers, cable := svc.Inventory(), svc.Cable()
		snap := svc.Snapshot()

		fmt.Printf("Routers: %d / %d in stock, %d used  [%s]\n",
			routers.Stock, routers.Capacity, routers.Used(), inv.InventoryLevel(routers))
		fmt.Printf("Cable:   %dm / %dm in stock  [%s]\n", cable.Stock, cable.Capacity, inv.CableLevel(cable))
		fmt.Printf("SIPs:    %d\n", len(snap.Records))
		if snap.Meta.LastBackupAt != nil {
			fmt.Printf("Last backup: %s\n", snap.Meta.LastBackupAt.Local().Format("2006-01-02 15:04"))
		} else {
			fmt.Println("Last backup: never")
		}
		warnBackupDue(a)
		return nil
	},
}

// counterCommands builds the set/add/remove subcommands for one counter.
func counterCommands(parent *cobra.Command, noun, unit string,
	set func(svc *inv.Service, capacity, stock int) (model.Counter, error),
	adjust func(svc *inv.Service, delta int, reason string) (int, error),
) {
	setCmd := &cobra.Command{
		Use:   "set CAPACITY [STOCK]",
		Short: "Set " + noun + " capacity and stock (stock defaults to capacity)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid capacity %q", args[0])
			}
			stock := capacity
			if len(args) > 1 {
				if stock, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid stock %q", args[1])
				}
			}

			a, err := newApp("Set" + noun)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := set(a.Service(), capacity, stock)
			if err := a.Operation().Fail(err); err != nil {
				return err
			}
			fmt.Printf("%s: %d%s / %d%s\n", noun, c.Stock, unit, c.Capacity, unit)
			return nil
		},
	}

	adjustCmd := func(use, short string, sign int) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " AMOUNT",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("amount must be a positive integer, got %q", args[0])
				}
				reason, _ := cmd.Flags().GetString("reason")

				a, err := newApp("Adjust" + noun)
				if err != nil {
					return err
				}
				defer a.Close()

				applied, err := adjust(a.Service(), sign*n, reason)
				if err := a.Operation().Fail(err); err != nil {
					return err
				}
				if applied != sign*n {
					fmt.Printf("Clamped to stock bounds: applied %+d%s instead of %+d%s\n", applied, unit, sign*n, unit)
				} else {
					fmt.Printf("Applied %+d%s\n", applied, unit)
				}
				return nil
			},
		}
		c.Flags().StringP("reason", "r", "", "Reason recorded in the log")
		return c
	}

	parent.AddCommand(setCmd)
	parent.AddCommand(adjustCmd("add", "Add "+noun+" to stock", 1))
	parent.AddCommand(adjustCmd("remove", "Remove "+noun+" from stock", -1))
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage router stock",
}

var cableCmd = &cobra.Command{
	Use:   "cable",
	Short: "Manage cable stock (meters)",
}

func init() {
	counterCommands(stockCmd, "Routers", "",
		(*inv.Service).SetInventory,
		(*inv.Service).AdjustStock)
	counterCommands(cableCmd, "Cable", "m",
		(*inv.Service).SetCable,
		(*inv.Service).AdjustCable)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(cableCmd)
}
