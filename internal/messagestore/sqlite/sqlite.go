// Package sqlite implements messagestore.Store on an embedded SQLite
// database. This is the default backend: a single file inside the runtime
// data directory.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements messagestore.Store backed by a SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	notifier *messagestore.Notifier

	// appendMu serializes appends so global id assignment, commit order,
	// and tap publication order all agree.
	appendMu sync.Mutex
}

// Compile-time check that SQLiteStore implements messagestore.Store.
var _ messagestore.Store = (*SQLiteStore)(nil)

// Open opens (or creates) the store at the given path and runs any pending
// migrations. synchronous=FULL keeps appends fsync-committed before success
// is returned.
func Open(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite permits one writer; more connections only add lock contention.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, notifier: messagestore.NewNotifier()}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the live tap channels and the underlying database.
func (s *SQLiteStore) Close() error {
	s.notifier.Close()
	return s.db.Close()
}

// Tap returns a live channel of committed events.
func (s *SQLiteStore) Tap() (<-chan model.Event, func()) {
	return s.notifier.Tap()
}

func (s *SQLiteStore) Append(ctx context.Context, stream model.StreamName, expectedSequence uint64, proposed []model.ProposedEvent) ([]model.Event, error) {
	if len(proposed) == 0 {
		return nil, nil
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	length, err := queryStreamLength(ctx, tx, stream)
	if err != nil {
		return nil, err
	}
	if length != expectedSequence {
		return nil, &model.ConflictError{
			StreamName:       stream,
			ExpectedSequence: expectedSequence,
			CurrentSequence:  length,
		}
	}

	now := time.Now().UTC()
	persisted := make([]model.Event, 0, len(proposed))
	for i, p := range proposed {
		ev := model.Event{
			ID:         uuid.NewString(),
			Sequence:   expectedSequence + uint64(i),
			StreamName: stream,
			EventType:  p.EventType,
			Data:       p.Data,
			Metadata:   p.Metadata,
			Time:       now,
		}
		globalID, err := queryInsertEvent(ctx, tx, &ev)
		if err != nil {
			return nil, fmt.Errorf("insert event: %w", err)
		}
		ev.GlobalID = globalID
		persisted = append(persisted, ev)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	// Still under appendMu: taps observe commits in global id order.
	s.notifier.Publish(persisted)

	return persisted, nil
}

func (s *SQLiteStore) ReadStream(ctx context.Context, stream model.StreamName, fromSequence uint64, limit int) ([]model.Event, error) {
	return queryReadStream(ctx, s.db, stream, fromSequence, limit)
}

func (s *SQLiteStore) ReadCategory(ctx context.Context, category string, fromGlobalID uint64, limit int) ([]model.Event, error) {
	return queryReadCategory(ctx, s.db, category, fromGlobalID, limit)
}

func (s *SQLiteStore) ReadAll(ctx context.Context, fromGlobalID uint64, limit int) ([]model.Event, error) {
	return queryReadAll(ctx, s.db, fromGlobalID, limit)
}

func (s *SQLiteStore) StreamLength(ctx context.Context, stream model.StreamName) (uint64, error) {
	return queryStreamLength(ctx, s.db, stream)
}

func (s *SQLiteStore) LoadCursor(ctx context.Context, name string) (*model.Cursor, error) {
	return queryLoadCursor(ctx, s.db, name)
}

func (s *SQLiteStore) SaveCursor(ctx context.Context, name string, globalID uint64) error {
	return querySaveCursor(ctx, s.db, name, globalID)
}

func (s *SQLiteStore) DeleteCursor(ctx context.Context, name string) error {
	return queryDeleteCursor(ctx, s.db, name)
}
