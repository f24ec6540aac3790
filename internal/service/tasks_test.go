package service

import (
	"context"
	"testing"
	"time"

	"taskagotchi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insertTask(t *testing.T, gdb *gorm.DB, owner uint, name string, created time.Time, complete bool) domain.Task {
	t.Helper()
	task := domain.Task{UserID: owner, Name: name, Type: domain.TaskDaily, CreatedAt: created, Complete: complete}
	require.NoError(t, gdb.Create(&task).Error)
	return task
}

func TestCreateTask(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewTaskService(gdb)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = fixedNow(now)
	user := createUser(t, gdb, "tasker", 0)
	due := now.Add(72 * time.Hour)

	task, err := svc.Create(context.Background(), NewTask{Owner: user.ID, Name: "Build backend", Type: domain.TaskShortTerm, DueDate: &due})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.False(t, task.Complete)
	assert.False(t, task.Renewed)
	assert.True(t, task.CreatedAt.Equal(now))

	stored, err := svc.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Build backend", stored.Name)
	require.NotNil(t, stored.DueDate)
	assert.True(t, stored.DueDate.Equal(due))
}

func TestCreateTask_Validation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewTaskService(gdb)
	user := createUser(t, gdb, "tasker", 0)
	ctx := context.Background()

	_, err := svc.Create(ctx, NewTask{Owner: user.ID, Name: "", Type: domain.TaskDaily})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, NewTask{Owner: user.ID, Name: "   ", Type: domain.TaskDaily})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, NewTask{Owner: user.ID, Name: "Should Fail", Type: "not-a-real-type"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, NewTask{Owner: 9999, Name: "Orphan", Type: domain.TaskDaily})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTasks_FiltersAndOrder(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewTaskService(gdb)
	alice := createUser(t, gdb, "alice", 0)
	bob := createUser(t, gdb, "bob", 0)
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mk := func(owner uint, name string, typ domain.TaskType, due *time.Time, complete bool) uint {
		task, err := svc.Create(ctx, NewTask{Owner: owner, Name: name, Type: typ, DueDate: due, Complete: complete})
		require.NoError(t, err)
		return task.ID
	}
	noDue := mk(alice.ID, "no due", domain.TaskLongTerm, nil, false)
	late := mk(alice.ID, "late", domain.TaskShortTerm, ptr(base.Add(48*time.Hour)), true)
	early := mk(alice.ID, "early", domain.TaskDaily, ptr(base), false)
	bobs := mk(bob.ID, "bob's", domain.TaskDaily, ptr(base.Add(time.Hour)), false)

	ids := func(tasks []domain.Task) []uint {
		out := make([]uint, len(tasks))
		for i, task := range tasks {
			out[i] = task.ID
		}
		return out
	}

	all, err := svc.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint{early, bobs, late, noDue}, ids(all))

	mine, err := svc.List(ctx, TaskFilter{Owner: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{early, late, noDue}, ids(mine))

	done, err := svc.List(ctx, TaskFilter{Owner: &alice.ID, Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, []uint{late}, ids(done))

	daily, err := svc.List(ctx, TaskFilter{Type: ptr(domain.TaskDaily), Completed: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, []uint{early, bobs}, ids(daily))
}

func TestListTasks_NullDueDatesTieBreakOnID(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewTaskService(gdb)
	user := createUser(t, gdb, "ties", 0)
	ctx := context.Background()

	var want []uint
	for _, name := range []string{"a", "b", "c"} {
		task, err := svc.Create(ctx, NewTask{Owner: user.ID, Name: name, Type: domain.TaskDaily})
		require.NoError(t, err)
		want = append(want, task.ID)
	}
	got, err := svc.List(ctx, TaskFilter{Owner: &user.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, task := range got {
		assert.Equal(t, want[i], task.ID)
	}
}

func TestUpdateTask(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewTaskService(gdb)
	user := createUser(t, gdb, "updater", 0)
	ctx := context.Background()
	due := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	task, err := svc.Create(ctx, NewTask{Owner: user.ID, Name: "Read logs", Type: domain.TaskDaily, DueDate: &due})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, task.ID, TaskPatch{Complete: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Complete)
	assert.Equal(t, "Read logs", updated.Name, "unspecified fields keep their value")
	assert.Equal(t, domain.TaskDaily, updated.Type)
	require.NotNil(t, updated.DueDate)

	updated, err = svc.Update(ctx, task.ID, TaskPatch{Name: ptr("Write logs"), ClearDueDate: true})
	require.NoError(t, err)
	assert.Equal(t, "Write logs", updated.Name)
	assert.Nil(t, updated.DueDate)
	assert.True(t, updated.Complete)

	_, err = svc.Update(ctx, task.ID, TaskPatch{Name: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	stored, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write logs", stored.Name)

	_, err = svc.Update(ctx, 9999, TaskPatch{Complete: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewTaskService(gdb)
	user := createUser(t, gdb, "deleter", 0)
	ctx := context.Background()

	task, err := svc.Create(ctx, NewTask{Owner: user.ID, Name: "Temp", Type: domain.TaskDaily})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, task.ID))
	assert.ErrorIs(t, svc.Delete(ctx, task.ID), domain.ErrNotFound)
	_, err = svc.Get(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, -offset) }

	t.Run("three consecutive days", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewTaskService(gdb)
		svc.now = fixedNow(now)
		user := createUser(t, gdb, "streaker", 0)
		insertTask(t, gdb, user.ID, "today", day(0), true)
		insertTask(t, gdb, user.ID, "yesterday", day(1), true)
		insertTask(t, gdb, user.ID, "day before", day(2), true)

		got, err := svc.Streak(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("gap stops the streak", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewTaskService(gdb)
		svc.now = fixedNow(now)
		user := createUser(t, gdb, "gappy", 0)
		insertTask(t, gdb, user.ID, "today", day(0), true)
		insertTask(t, gdb, user.ID, "two days ago", day(2), true)

		got, err := svc.Streak(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("nothing today", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewTaskService(gdb)
		svc.now = fixedNow(now)
		user := createUser(t, gdb, "lazy", 0)
		insertTask(t, gdb, user.ID, "yesterday", day(1), true)
		insertTask(t, gdb, user.ID, "today but open", day(0), false)

		got, err := svc.Streak(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("other users do not count", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewTaskService(gdb)
		svc.now = fixedNow(now)
		user := createUser(t, gdb, "solo", 0)
		other := createUser(t, gdb, "other", 0)
		insertTask(t, gdb, user.ID, "today", day(0), true)
		insertTask(t, gdb, other.ID, "yesterday", day(1), true)

		got, err := svc.Streak(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})

	t.Run("days are UTC", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewTaskService(gdb)
		svc.now = fixedNow(time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC))
		user := createUser(t, gdb, "utc", 0)
		// 20:00 on the 9th in UTC-5 is 01:00 on the 10th in UTC.
		est := time.FixedZone("EST", -5*60*60)
		insertTask(t, gdb, user.ID, "late evening", time.Date(2025, 3, 9, 20, 0, 0, 0, est), true)

		got, err := svc.Streak(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	})
}

func TestCountStreak(t *testing.T) {
	today := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	days := map[string]struct{}{
		"2025-01-01": {},
		"2024-12-31": {},
		"2024-12-30": {},
		"2024-12-28": {},
	}
	assert.Equal(t, 3, countStreak(days, today))
	assert.Equal(t, 0, countStreak(map[string]struct{}{}, today))
}
