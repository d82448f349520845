package main

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// Regenerates query helpers for the shared tables (employees and the
// attendance schema). Run from core/scripts/buildmodels with DSN pointing
// at a migrated database.
func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath:      "../../query",
		ModelPkgPath: "models",
		Mode:         gen.WithoutContext | gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.WithDataTypeMap(map[string]func(gorm.ColumnType) (dataType string){
		"time": func(gorm.ColumnType) string {
			return "string"
		},
		"decimal": func(gorm.ColumnType) string {
			return "float64"
		},
	})

	dsn := os.Getenv("DSN")
	if dsn == "" {
		dsn = "root:development@tcp(localhost:3306)/development?parseTime=true"
	}
	gormdb, _ := gorm.Open(mysql.Open(dsn))
	g.UseDB(gormdb)

	g.GenerateModel("employees")
	g.GenerateModel("time_sessions")
	g.GenerateModel("work_schedules")
	g.ApplyBasic()

	g.Execute()
}
