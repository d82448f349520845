package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"timekeep.com/timekeep/core"
)

var rootCmd = &cobra.Command{
	Use:   "timekeep",
	Short: "Admin tooling for the attendance service",
	Long: `timekeep bundles the operational commands for the attendance service:
bulk manual-entry import, schedule seeding and identity token issuing.`,
}

// connect opens a direct connection using the DSN environment variable.
func connect() *gorm.DB {
	dsn := os.Getenv("DSN")
	if dsn == "" {
		dsn = "root:development@tcp(localhost:3306)/development?parseTime=true"
	}
	return core.ConnectDB(dsn)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(migrateCmd)
}
