package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/clause"

	"timekeep.com/timekeep/attendance/model"
)

var seedCmd = &cobra.Command{
	Use:   "seed <employee-id>",
	Short: "Seed or update an employee's work schedule",
	Long: `Writes a work_schedules row for the employee. Days are weekday numbers
(0 = Sunday).

Example:
  timekeep seed 42 --days 1,2,3,4,5 --start 08:00 --end 17:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		employeeID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid employee id %q", args[0])
		}

		daysFlag, _ := cmd.Flags().GetString("days")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		if _, err := time.Parse("15:04", start); err != nil {
			return fmt.Errorf("invalid start time %q", start)
		}
		if _, err := time.Parse("15:04", end); err != nil {
			return fmt.Errorf("invalid end time %q", end)
		}

		var days []time.Weekday
		for _, part := range strings.Split(daysFlag, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 || n > 6 {
				return fmt.Errorf("invalid weekday %q", part)
			}
			days = append(days, time.Weekday(n))
		}

		schedule := model.WorkSchedule{
			EmployeeID: uint(employeeID),
			ShiftStart: start,
			ShiftEnd:   end,
		}
		schedule.SetWorkingDays(days)

		db := connect()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}},
			UpdateAll: true,
		}).Create(&schedule).Error; err != nil {
			return err
		}

		fmt.Printf("Schedule saved for employee %d: days %s, %s-%s\n", employeeID, schedule.Days, start, end)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("days", "1,2,3,4,5", "working days as weekday numbers")
	seedCmd.Flags().String("start", "08:00", "shift start")
	seedCmd.Flags().String("end", "17:00", "shift end")
}
