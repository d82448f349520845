package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"timekeep.com/timekeep/attendance/model"
	"timekeep.com/timekeep/utils"
	web "timekeep.com/timekeep/web/common"
)

var exportHeader = []string{
	"Session ID", "Employee ID", "Username", "Date", "Time In", "Time Out",
	"Break (min)", "Worked (h)", "Overtime (h)", "Late", "Label", "Entry", "Status", "Remarks",
}

// Export streams the admin report as an XLSX workbook. Optional filters:
// ?status=, ?from=, ?to= (dates, half-open range).
func (ep *Endpoint) Export(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !model.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid status value"))
		return
	}

	from := utils.MustParseDate("1970-01-01")
	to := time.Now().AddDate(0, 0, 1)
	if raw := c.Query("from"); raw != "" {
		parsed, err := utils.ParseISOTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid from date"))
			return
		}
		from = *parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := utils.ParseISOTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("invalid to date"))
			return
		}
		to = *parsed
	}

	var sessions []model.TimeSession
	if err := ep.exec(c, func(db *gorm.DB) error {
		store := ep.manager(db).Store()
		var err error
		sessions, err = store.InRange(c.Request.Context(), from, to, status)
		return err
	}); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sessions"
	f.SetSheetName("Sheet1", sheet)

	for i, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, s := range sessions {
		values := []interface{}{
			s.ID.String(),
			s.EmployeeID,
			s.EmployeeUsername,
			s.TimeIn.Format("2006-01-02"),
			s.TimeIn.Format("15:04"),
			formatTimePtr(s.TimeOut),
			s.BreakDurationSeconds / 60,
			float64(s.WorkDurationSeconds) / 3600,
			float64(s.OvertimeSeconds) / 3600,
			s.Late,
			s.Label,
			s.EntryType,
			s.Status,
			s.Remarks,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	writeSummarySheet(f, sessions)

	filename := fmt.Sprintf("sessions-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}

var summaryHeader = []string{"Employee ID", "Username", "Sessions", "Worked (h)", "Overtime (h)", "Times Late"}

// writeSummarySheet adds per-employee totals next to the raw rows.
func writeSummarySheet(f *excelize.File, sessions []model.TimeSession) {
	const sheet = "Summary"
	f.NewSheet(sheet)

	for i, title := range summaryHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	groups := utils.GroupBy(sessions, func(s model.TimeSession) uint { return s.EmployeeID })

	ids := make([]uint, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for row, id := range ids {
		group := groups[id]
		var workSeconds, overtimeSeconds int64
		var late int
		for _, s := range group {
			workSeconds += s.WorkDurationSeconds
			overtimeSeconds += s.OvertimeSeconds
			if s.Late {
				late++
			}
		}
		values := []interface{}{
			id,
			group[0].EmployeeUsername,
			len(group),
			float64(workSeconds) / 3600,
			float64(overtimeSeconds) / 3600,
			late,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
}
