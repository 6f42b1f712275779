// Package postgres implements messagestore.Store backed by PostgreSQL, for
// deployments where the runtime's data should live in a managed database
// rather than an embedded file.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements messagestore.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db       *sql.DB
	notifier *messagestore.Notifier

	// appendMu serializes appends; the runtime is the single writer of the
	// log, and holding the mutex across commit and tap publication keeps
	// global id order equal to observation order.
	appendMu sync.Mutex
}

// Compile-time check that PostgresStore implements messagestore.Store.
var _ messagestore.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db, notifier: messagestore.NewNotifier()}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the live tap channels and the underlying connection pool.
func (s *PostgresStore) Close() error {
	s.notifier.Close()
	return s.db.Close()
}

// Tap returns a live channel of committed events.
func (s *PostgresStore) Tap() (<-chan model.Event, func()) {
	return s.notifier.Tap()
}

func (s *PostgresStore) Append(ctx context.Context, stream model.StreamName, expectedSequence uint64, proposed []model.ProposedEvent) ([]model.Event, error) {
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

	s.notifier.Publish(persisted)

	return persisted, nil
}

func (s *PostgresStore) ReadStream(ctx context.Context, stream model.StreamName, fromSequence uint64, limit int) ([]model.Event, error) {
	return queryReadStream(ctx, s.db, stream, fromSequence, limit)
}

func (s *PostgresStore) ReadCategory(ctx context.Context, category string, fromGlobalID uint64, limit int) ([]model.Event, error) {
	return queryReadCategory(ctx, s.db, category, fromGlobalID, limit)
}

func (s *PostgresStore) ReadAll(ctx context.Context, fromGlobalID uint64, limit int) ([]model.Event, error) {
	return queryReadAll(ctx, s.db, fromGlobalID, limit)
}

func (s *PostgresStore) StreamLength(ctx context.Context, stream model.StreamName) (uint64, error) {
	return queryStreamLength(ctx, s.db, stream)
}

func (s *PostgresStore) LoadCursor(ctx context.Context, name string) (*model.Cursor, error) {
	return queryLoadCursor(ctx, s.db, name)
}

func (s *PostgresStore) SaveCursor(ctx context.Context, name string, globalID uint64) error {
	return querySaveCursor(ctx, s.db, name, globalID)
}

func (s *PostgresStore) DeleteCursor(ctx context.Context, name string) error {
	return queryDeleteCursor(ctx, s.db, name)
}
