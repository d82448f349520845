package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	attendance "timekeep.com/timekeep/attendance/core"
	"timekeep.com/timekeep/core"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := connect()
		if err := db.AutoMigrate(&core.Employee{}); err != nil {
			return err
		}
		if err := attendance.Migrate(db); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}
