package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ostrata/mcp-request-tracker/internal/parse"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s, err := NewSQLiteStoreWithDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(userID string) *Record {
	return &Record{
		RequestRecord: parse.RequestRecord{
			RequestNumber:    "RITM0012345",
			RequestedFor:     "Jane Doe",
			ShortDescription: "Contractor badge",
			State:            "Pending",
			Approvals: []parse.ApprovalEntry{
				{State: "Approved", Approver: "John Smith", Item: "Laptop Request",
					Created: "2024-01-05 09:00:00", CreatedOriginal: "2024-01-05 09:00:00"},
				{State: "Approved", Approver: "Mary Jones", Item: "Badge Access",
					Created: "2024-01-06 10:30:00", CreatedOriginal: "2024-01-06 10:30:00"},
			},
		},
		UserID:     userID,
		FileName:   "ritm0012345.pdf",
		FileURL:    "/archive/u1/ritm0012345.pdf",
		UploadedAt: time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, sampleRecord("u1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "RITM0012345", got.RequestNumber)
	assert.Equal(t, "Jane Doe", got.RequestedFor)
	assert.Equal(t, "u1", got.UserID)
	require.Len(t, got.Approvals, 2)
	assert.Equal(t, "John Smith", got.Approvals[0].Approver)
	assert.Equal(t, "Mary Jones", got.Approvals[1].Approver)
	assert.Nil(t, got.CheckedInAt)
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "not-a-number")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, sampleRecord("u1"))
	require.NoError(t, err)

	other := sampleRecord("u2")
	other.State = "Approved"
	_, err = s.Create(ctx, other)
	require.NoError(t, err)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := s.List(ctx, Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].UserID)

	approved, err := s.List(ctx, Filter{State: "Approved"})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "u2", approved[0].UserID)

	none, err := s.List(ctx, Filter{UserID: "u1", State: "Approved"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_Update(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, sampleRecord("u1"))
	require.NoError(t, err)

	err = s.Update(ctx, id, Updates{State: "Closed", WorkNotes: "badge returned"})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Closed", got.State)
	assert.Equal(t, "badge returned", got.WorkNotes)

	err = s.Update(ctx, id, Updates{})
	assert.Error(t, err)

	err = s.Update(ctx, "999", Updates{State: "Closed"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, sampleRecord("u1"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestSQLiteStore_CheckIn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, sampleRecord("u1"))
	require.NoError(t, err)

	require.NoError(t, s.CheckIn(ctx, id, "guard-7"))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.CheckedInAt)
	assert.Equal(t, "guard-7", got.CheckedInBy)

	err = s.CheckIn(ctx, id, "guard-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already checked in")

	assert.Error(t, s.CheckIn(ctx, id, ""))
	assert.True(t, errors.Is(s.CheckIn(ctx, "999", "guard-7"), ErrNotFound))
}
