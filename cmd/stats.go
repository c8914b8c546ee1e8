package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// statsCmd prints the aggregate loan statistics snapshot.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print loan statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, _, log, err := buildEngine()
		if err != nil {
			return err
		}
		defer log.Sync()

		stats, err := service.Statistics(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Total loans:     %d\n", stats.TotalLoans)
		fmt.Printf("Active loans:    %d\n", stats.ActiveLoans)
		fmt.Printf("Overdue loans:   %d\n", stats.OverdueLoans)
		fmt.Printf("Completed loans: %d\n", stats.CompletedLoans)
		fmt.Printf("Total renewals:  %d\n", stats.TotalRenewals)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(statsCmd)
}
