package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"timekeep.com/timekeep/attendance/model"
	"timekeep.com/timekeep/utils"
)

// ManualEntryRow is one line of a bulk import file:
// employee_id,username,time_in,time_out[,label]
type ManualEntryRow struct {
	EmployeeID uint
	Username   string
	TimeIn     time.Time
	TimeOut    time.Time
	Label      string
}

// ParseManualEntriesCSV reads a bulk import file. The header row is skipped
// and timestamps are shifted into the zone given by offset seconds.
func ParseManualEntriesCSV(r io.Reader, offset int) ([]ManualEntryRow, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	loc := time.FixedZone("OFFSET", offset)

	var entries []ManualEntryRow
	for i, row := range rows {
		if i == 0 {
			continue
		}

		if len(row) < 4 {
			return nil, fmt.Errorf("row %d: expected at least 4 columns, got %d", i, len(row))
		}

		id, err := strconv.ParseUint(row[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid employee id: %w", i, err)
		}

		timeIn, err := utils.ParseISOTime(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid time in: %w", i, err)
		}
		timeOut, err := utils.ParseISOTime(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid time out: %w", i, err)
		}

		label := model.LabelOB
		if len(row) > 4 && row[4] != "" {
			label = row[4]
		}

		entries = append(entries, ManualEntryRow{
			EmployeeID: uint(id),
			Username:   row[1],
			TimeIn:     timeIn.In(loc),
			TimeOut:    timeOut.In(loc),
			Label:      label,
		})
	}

	return entries, nil
}

type ImportStats struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// ImportManualEntries creates pending manual sessions from the parsed rows.
// Duplicate windows are skipped rather than failing the batch.
func (m *Manager) ImportManualEntries(ctx context.Context, entries []ManualEntryRow) (ImportStats, error) {
	var stats ImportStats
	for _, entry := range entries {
		_, err := m.CreateManual(ctx, ManualParams{
			EmployeeID: entry.EmployeeID,
			Username:   entry.Username,
			TimeIn:     entry.TimeIn,
			TimeOut:    entry.TimeOut,
			Label:      entry.Label,
			Remarks:    "bulk import",
		})
		switch {
		case err == nil:
			stats.Created++
		case errors.Is(err, ErrConflict):
			stats.Skipped++
		case errors.Is(err, ErrInvalidTime), errors.Is(err, ErrInvalidStatus):
			stats.Errors++
		default:
			return stats, err
		}
	}
	return stats, nil
}
