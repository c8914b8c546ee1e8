package cmd

import (
	catmodels "lending-engine/feature/catalog/models"
	loanmodels "lending-engine/feature/lending/models"
	memmodels "lending-engine/feature/membership/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or upgrades the items, members and loans tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Long:  `Runs the schema migration for the items, members and loans tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, log, err := buildEngine()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := db.AutoMigrate(
			&catmodels.Item{},
			&memmodels.Member{},
			&loanmodels.Loan{},
		); err != nil {
			return err
		}

		log.Info("Schema migration completed",
			zap.Strings("tables", []string{"items", "members", "loans"}),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
