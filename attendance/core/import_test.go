package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importCSV = `employee_id,username,time_in,time_out,label
1,jdoe,2026-03-02T09:00:00Z,2026-03-02T18:00:00Z,
2,asmith,2026-03-02T08:00:00+00:00,2026-03-02T16:00:00+00:00,Work
`

func TestParseManualEntriesCSV(t *testing.T) {
	entries, err := ParseManualEntriesCSV(strings.NewReader(importCSV), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, uint(1), entries[0].EmployeeID)
	assert.Equal(t, "jdoe", entries[0].Username)
	assert.Equal(t, "OB", entries[0].Label)
	assert.True(t, entries[0].TimeIn.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))

	assert.Equal(t, "Work", entries[1].Label)
}

func TestParseManualEntriesCSVOffset(t *testing.T) {
	entries, err := ParseManualEntriesCSV(strings.NewReader(importCSV), 10*3600)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// the instant is unchanged, only the zone shifts
	assert.True(t, entries[0].TimeIn.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, 19, entries[0].TimeIn.Hour())
}

func TestParseManualEntriesCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "Short row",
			csv:  "employee_id,username,time_in,time_out\n1,jdoe,2026-03-02T09:00:00Z\n",
		},
		{
			name: "Bad employee id",
			csv:  "employee_id,username,time_in,time_out\nx,jdoe,2026-03-02T09:00:00Z,2026-03-02T18:00:00Z\n",
		},
		{
			name: "Bad timestamp",
			csv:  "employee_id,username,time_in,time_out\n1,jdoe,yesterday,2026-03-02T18:00:00Z\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManualEntriesCSV(strings.NewReader(tt.csv), 0)
			assert.Error(t, err)
		})
	}
}

func TestImportManualEntries(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	entries, err := ParseManualEntriesCSV(strings.NewReader(importCSV), 0)
	require.NoError(t, err)

	// one invalid row on top of the parsed ones
	entries = append(entries, ManualEntryRow{
		EmployeeID: 3,
		Username:   "binv",
		TimeIn:     date(18, 0),
		TimeOut:    date(9, 0),
		Label:      "OB",
	})

	stats, err := manager.ImportManualEntries(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Created: 2, Errors: 1}, stats)

	// re-running the same file only skips
	stats, err = manager.ImportManualEntries(ctx, entries[:2])
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Skipped: 2}, stats)

	sessions, err := manager.Store().ByStatus(ctx, "pending", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
