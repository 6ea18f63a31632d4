package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLogRepo_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewLogRepo(newTestDB(t))
	ts := time.Date(2026, 3, 1, 9, 30, 0, 123000000, time.UTC)

	require.NoError(t, repo.Append(ctx, core.LogEntry{CreatedAt: ts, UserID: "u1", Phase: core.PhaseChat, Message: "hi", Reply: "hello"}))
	require.NoError(t, repo.Append(ctx, core.LogEntry{CreatedAt: ts, UserID: "u2", Phase: core.PhaseBrief, Message: "x", Reply: "y"}))
	require.NoError(t, repo.Append(ctx, core.LogEntry{
		CreatedAt: ts.Add(time.Minute),
		UserID:    "u1",
		Phase:     core.PhaseChat,
		Message:   "미국 선크림",
		Reply:     "[Launch Brief]\n...",
		Slots:     core.Slots{core.SlotCountry: "미국", core.SlotCategory: "선크림"},
		IsBrief:   true,
	}))

	got, err := repo.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(3), got[0].ID)
	assert.True(t, got[0].IsBrief)
	assert.Equal(t, core.Slots{core.SlotCountry: "미국", core.SlotCategory: "선크림"}, got[0].Slots)
	assert.Equal(t, ts.Add(time.Minute), got[0].CreatedAt)

	assert.Equal(t, "hello", got[1].Reply)
	assert.Nil(t, got[1].Slots)
	assert.False(t, got[1].IsBrief)
	assert.Equal(t, ts, got[1].CreatedAt)

	limited, err := repo.Recent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, int64(3), limited[0].ID)

	all, err := repo.RecentAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "u2", all[1].UserID)
	assert.Equal(t, core.PhaseBrief, all[1].Phase)
}

func TestLogRepo_UnknownUser(t *testing.T) {
	got, err := NewLogRepo(newTestDB(t)).Recent(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLogRepo_DamagedSnapshot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, err := db.ExecContext(ctx, `INSERT INTO logs (user_id, phase, message, reply, slots_json) VALUES ('u1', 'CHAT', 'm', 'r', '{broken')`)
	require.NoError(t, err)

	got, err := NewLogRepo(db).Recent(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Slots)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestMigrations_BackfillBriefTag(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, goose.DownToContext(ctx, db, "migrations", 1))
	_, err := db.ExecContext(ctx, `INSERT INTO logs (user_id, phase, message, reply) VALUES
		('u1', 'CHAT', 'a', '  [Launch Brief]\n- Country/Region: 미국'),
		('u1', 'CHAT', 'b', '요약: [Launch Brief]')`)
	require.NoError(t, err)
	require.NoError(t, migrate(ctx, db))

	got, err := NewLogRepo(db).Recent(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].IsBrief)
	assert.True(t, got[1].IsBrief)
}

func TestNewDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brief.db")
	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewLogRepo(db).Append(context.Background(), core.LogEntry{UserID: "u", Phase: core.PhaseChat}))
	assert.FileExists(t, path)
}
