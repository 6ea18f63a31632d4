package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// LogRepo is the append-only conversation log.
type LogRepo struct {
	db *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepo {
	return &LogRepo{db: db}
}

func (r *LogRepo) Append(ctx context.Context, e core.LogEntry) error {
	// Empty assignments are stored as NULL
	var slotsJSON sql.NullString
	if len(e.Slots) > 0 {
		data, err := json.Marshal(e.Slots)
		if err != nil {
			return fmt.Errorf("failed to marshal slots: %w", err)
		}
		slotsJSON = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO logs (created_at, user_id, phase, message, reply, slots_json, is_brief) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		createdAt.UTC().Format(timeLayout), e.UserID, string(e.Phase), e.Message, e.Reply, slotsJSON, e.IsBrief)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	return nil
}

func (r *LogRepo) Recent(ctx context.Context, userID string, limit int) ([]core.LogEntry, error) {
	query := `SELECT id, created_at, user_id, phase, message, reply, slots_json, is_brief FROM logs WHERE user_id = ? ORDER BY id DESC LIMIT ?`
	return r.query(ctx, query, userID, limit)
}

func (r *LogRepo) RecentAll(ctx context.Context, limit int) ([]core.LogEntry, error) {
	query := `SELECT id, created_at, user_id, phase, message, reply, slots_json, is_brief FROM logs ORDER BY id DESC LIMIT ?`
	return r.query(ctx, query, limit)
}

func (r *LogRepo) query(ctx context.Context, query string, args ...any) ([]core.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []core.LogEntry
	for rows.Next() {
		var (
			e         core.LogEntry
			createdAt string
			phase     string
			slotsJSON sql.NullString
		)
		if err := rows.Scan(&e.ID, &createdAt, &e.UserID, &phase, &e.Message, &e.Reply, &slotsJSON, &e.IsBrief); err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		e.Phase = core.Phase(phase)
		e.CreatedAt = parseTime(createdAt)

		if slotsJSON.Valid && slotsJSON.String != "" {
			if err := json.Unmarshal([]byte(slotsJSON.String), &e.Slots); err != nil {
				// A damaged snapshot must not hide the rest of the row
				log.FromCtx(ctx).Warn().Err(err).Int64("log_id", e.ID).Msg("skipping unreadable slots snapshot")
				e.Slots = nil
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
