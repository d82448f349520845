package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timekeep.com/timekeep/attendance/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "timekeep.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func activeSession(employeeID uint, timeIn time.Time) *model.TimeSession {
	return &model.TimeSession{
		EmployeeID:       employeeID,
		EmployeeUsername: "jdoe",
		TimeIn:           timeIn,
		Label:            model.LabelWork,
		EntryType:        model.EntrySystem,
		Status:           model.StatusActive,
	}
}

func TestStoreCreateAndFind(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	session := activeSession(1, date(8, 0))
	require.NoError(t, store.Create(ctx, session))
	assert.NotEqual(t, "", session.ID.String())

	found, err := store.FindActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)
	assert.Equal(t, model.StatusActive, found.Status)

	byID, err := store.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, byID.ID)

	_, err = store.FindActive(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreOpenGuard(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, activeSession(1, date(8, 0))))

	// second open session for the same employee hits the unique index
	err := store.Create(ctx, activeSession(1, date(9, 0)))
	assert.ErrorIs(t, err, ErrConflict)

	// a different employee is unaffected
	assert.NoError(t, store.Create(ctx, activeSession(2, date(8, 0))))
}

func TestStoreClosedSessionsDoNotCollide(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	for _, day := range []int{2, 3} {
		timeOut := time.Date(2026, 3, day, 17, 0, 0, 0, time.UTC)
		session := &model.TimeSession{
			EmployeeID:       1,
			EmployeeUsername: "jdoe",
			TimeIn:           time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC),
			TimeOut:          &timeOut,
			Label:            model.LabelWork,
			EntryType:        model.EntrySystem,
			Status:           model.StatusPending,
		}
		require.NoError(t, store.Create(ctx, session))
	}

	// history does not block a fresh time-in
	assert.NoError(t, store.Create(ctx, activeSession(1, date(8, 0))))
}

func TestStoreUpdateOptimisticLock(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	session := activeSession(1, date(8, 0))
	require.NoError(t, store.Create(ctx, session))

	first, err := store.FindByID(ctx, session.ID)
	require.NoError(t, err)
	second, err := store.FindByID(ctx, session.ID)
	require.NoError(t, err)

	first.Remarks = "writer one"
	require.NoError(t, store.Update(ctx, first))

	second.Remarks = "writer two"
	err = store.Update(ctx, second)
	assert.ErrorIs(t, err, ErrStaleSession)

	// the losing copy keeps its version so a re-fetch can retry
	assert.Equal(t, int64(0), second.LockVersion)

	final, err := store.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "writer one", final.Remarks)
	assert.Equal(t, int64(1), final.LockVersion)
}

func TestStoreListOrderingAndLimit(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	for day := 2; day <= 4; day++ {
		timeIn := time.Date(2026, 3, day, 8, 0, 0, 0, time.UTC)
		timeOut := timeIn.Add(9 * time.Hour)
		session := &model.TimeSession{
			EmployeeID:       1,
			EmployeeUsername: "jdoe",
			TimeIn:           timeIn,
			TimeOut:          &timeOut,
			Label:            model.LabelWork,
			EntryType:        model.EntrySystem,
			Status:           model.StatusPending,
		}
		require.NoError(t, store.Create(ctx, session))
	}

	sessions, err := store.ByEmployee(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.True(t, sessions[0].TimeIn.After(sessions[1].TimeIn))
	assert.True(t, sessions[1].TimeIn.After(sessions[2].TimeIn))

	limited, err := store.ByEmployee(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	pending, err := store.ByStatus(ctx, model.StatusPending, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	inRange, err := store.InRange(ctx,
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Len(t, inRange, 1)
}

func TestStoreStaleOpen(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, activeSession(1, date(8, 0))))
	require.NoError(t, store.Create(ctx, activeSession(2, date(8, 0).Add(-20*time.Hour))))

	stale, err := store.StaleOpen(ctx, date(8, 0).Add(-14*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, uint(2), stale[0].EmployeeID)
}

func TestStoreHasManualDuplicate(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	timeIn := date(9, 0)
	timeOut := date(18, 0)
	session := &model.TimeSession{
		EmployeeID:       1,
		EmployeeUsername: "jdoe",
		TimeIn:           timeIn,
		TimeOut:          &timeOut,
		Label:            model.LabelOB,
		EntryType:        model.EntryManual,
		Status:           model.StatusPending,
	}
	require.NoError(t, store.Create(ctx, session))

	duplicate, err := store.HasManualDuplicate(ctx, 1, timeIn, timeOut)
	require.NoError(t, err)
	assert.True(t, duplicate)

	duplicate, err = store.HasManualDuplicate(ctx, 1, timeIn, timeOut.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, duplicate)
}
