package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// overdueCmd prints every overdue loan with its accrued fine.
var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Report overdue loans and accrued fines",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, _, log, err := buildEngine()
		if err != nil {
			return err
		}
		defer log.Sync()

		report, err := service.OverdueLoans(cmd.Context(), time.Now().UTC())
		if err != nil {
			return err
		}

		if len(report) == 0 {
			fmt.Println("No overdue loans.")
			return nil
		}

		fmt.Printf("%-8s %-8s %-8s %-12s %-10s %s\n",
			"Loan", "Item", "Member", "Due", "Days Over", "Fine")
		for _, entry := range report {
			fmt.Printf("%-8d %-8d %-8d %-12s %-10d %.2f\n",
				entry.Loan.ID,
				entry.Loan.ItemID,
				entry.Loan.MemberID,
				entry.Loan.DueAt.Format("2006-01-02"),
				entry.DaysOverdue,
				entry.Fine,
			)
		}

		log.Info("Overdue report generated", zap.Int("loans", len(report)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(overdueCmd)
}
