package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emberline/keel/internal/model"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `global_id, id, stream_name, sequence, event_type, data, metadata, time_ms`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func queryInsertEvent(ctx context.Context, db executor, ev *model.Event) (uint64, error) {
	meta := []byte("{}")
	if len(ev.Metadata) > 0 {
		var err error
		meta, err = json.Marshal(ev.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata: %w", err)
		}
	}

	var globalID uint64
	err := db.QueryRowContext(ctx, `
		INSERT INTO events (id, stream_name, category, sequence, event_type, data, metadata, time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING global_id`,
		ev.ID,
		string(ev.StreamName),
		ev.StreamName.Category(),
		ev.Sequence,
		ev.EventType,
		string(ev.Data),
		string(meta),
		ev.Time.UnixMilli(),
	).Scan(&globalID)
	if err != nil {
		return 0, err
	}
	return globalID, nil
}

func queryStreamLength(ctx context.Context, db executor, stream model.StreamName) (uint64, error) {
	var length uint64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sequence) + 1, 0) FROM events WHERE stream_name = $1`,
		string(stream),
	).Scan(&length)
	if err != nil {
		return 0, fmt.Errorf("stream length: %w", err)
	}
	return length, nil
}

func queryReadStream(ctx context.Context, db executor, stream model.StreamName, fromSequence uint64, limit int) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE stream_name = $1 AND sequence >= $2
		ORDER BY sequence ASC
		LIMIT $3`,
		string(stream), fromSequence, limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryReadCategory(ctx context.Context, db executor, category string, fromGlobalID uint64, limit int) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE category = $1 AND global_id >= $2
		ORDER BY global_id ASC
		LIMIT $3`,
		category, fromGlobalID, limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("read category: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryReadAll(ctx context.Context, db executor, fromGlobalID uint64, limit int) ([]model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE global_id >= $1
		ORDER BY global_id ASC
		LIMIT $2`,
		fromGlobalID, limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("read all: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// limitArg maps "no limit" to NULL, which Postgres treats as LIMIT ALL.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// scanEvent scans a single row into a model.Event. The row must contain
// columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
	var (
		ev     model.Event
		stream string
		data   string
		meta   string
		timeMS int64
	)
	err := row.Scan(
		&ev.GlobalID,
		&ev.ID,
		&stream,
		&ev.Sequence,
		&ev.EventType,
		&data,
		&meta,
		&timeMS,
	)
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}

	ev.StreamName = model.StreamName(stream)
	ev.Data = json.RawMessage(data)
	ev.Time = time.UnixMilli(timeMS).UTC()
	if meta != "" && meta != "{}" {
		if err := json.Unmarshal([]byte(meta), &ev.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &ev, nil
}

func queryLoadCursor(ctx context.Context, db executor, name string) (*model.Cursor, error) {
	var lastAcked uint64
	err := db.QueryRowContext(ctx, `
		SELECT last_acked_global_id FROM cursors WHERE subscriber_name = $1`,
		name,
	).Scan(&lastAcked)
	if err == sql.ErrNoRows {
		return &model.Cursor{SubscriberName: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cursor: %w", err)
	}
	return &model.Cursor{SubscriberName: name, LastAckedGlobalID: lastAcked, Acked: true}, nil
}

func querySaveCursor(ctx context.Context, db executor, name string, globalID uint64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO cursors (subscriber_name, last_acked_global_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_name)
		DO UPDATE SET last_acked_global_id = GREATEST(cursors.last_acked_global_id, EXCLUDED.last_acked_global_id)`,
		name, globalID,
	)
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	return nil
}

func queryDeleteCursor(ctx context.Context, db executor, name string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM cursors WHERE subscriber_name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete cursor: %w", err)
	}
	return nil
}
