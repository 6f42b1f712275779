// Package registry stores versioned wasm module blobs. Entries are immutable
// once written; publishing the same name again creates the next version and
// old versions remain addressable.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/snappy"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spaolacci/murmur3"

	"github.com/emberline/keel/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS modules (
    name       TEXT    NOT NULL,
    version    INTEGER NOT NULL,
    bytes      BLOB    NOT NULL,
    checksum   INTEGER NOT NULL,
    size       INTEGER NOT NULL,
    created_ms INTEGER NOT NULL,
    PRIMARY KEY (name, version)
);`

// Registry is the durable module store. Publishes are serialized; reads are
// concurrent.
type Registry struct {
	db        *sql.DB
	publishMu sync.Mutex
}

// Open opens (or creates) the registry database at the given path.
func Open(path string) (*Registry, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create modules table: %w", err)
	}

	return &Registry{db: db}, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}

// Publish stores the module bytes as the next version of name. If the bytes
// are identical to the latest stored version, no new version is created and
// the existing one is returned.
func (r *Registry) Publish(ctx context.Context, name string, bytes []byte) (*model.ModuleEntry, error) {
	if err := model.ValidateCategory(name); err != nil {
		return nil, err
	}
	if len(bytes) == 0 {
		return nil, &model.InvalidInputError{Field: "module", Reason: "must not be empty"}
	}

	checksum := murmur3.Sum64(bytes)

	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	latest, err := r.Latest(ctx, name)
	if err == nil && latest.Checksum == checksum && latest.Size == len(bytes) {
		return latest, nil
	}
	if err != nil {
		var nf *model.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		latest = nil
	}

	var version uint64 = 1
	if latest != nil {
		version = latest.Version + 1
	}

	now := time.Now().UTC()
	compressed := snappy.Encode(nil, bytes)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO modules (name, version, bytes, checksum, size, created_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		name, version, compressed, int64(checksum), len(bytes), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert module %s v%d: %w", name, version, err)
	}

	return &model.ModuleEntry{
		Name:      name,
		Version:   version,
		Bytes:     bytes,
		Checksum:  checksum,
		Size:      len(bytes),
		CreatedAt: now,
	}, nil
}

// Latest returns the highest version of the named module.
func (r *Registry) Latest(ctx context.Context, name string) (*model.ModuleEntry, error) {
	return r.get(ctx, `
		SELECT name, version, bytes, checksum, size, created_ms FROM modules
		WHERE name = ? ORDER BY version DESC LIMIT 1`, name)
}

// Get returns one specific version of the named module.
func (r *Registry) Get(ctx context.Context, name string, version uint64) (*model.ModuleEntry, error) {
	return r.get(ctx, `
		SELECT name, version, bytes, checksum, size, created_ms FROM modules
		WHERE name = ? AND version = ?`, name, version)
}

func (r *Registry) get(ctx context.Context, query string, args ...any) (*model.ModuleEntry, error) {
	var (
		entry     model.ModuleEntry
		blob      []byte
		checksum  int64
		createdMS int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&entry.Name, &entry.Version, &blob, &checksum, &entry.Size, &createdMS,
	)
	if err == sql.ErrNoRows {
		name, _ := args[0].(string)
		return nil, &model.NotFoundError{Kind: "module", Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("query module: %w", err)
	}

	bytes, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("decompress module %s v%d: %w", entry.Name, entry.Version, err)
	}
	entry.Checksum = uint64(checksum)
	if murmur3.Sum64(bytes) != entry.Checksum {
		return nil, fmt.Errorf("module %s v%d: checksum mismatch", entry.Name, entry.Version)
	}
	entry.Bytes = bytes
	entry.CreatedAt = time.UnixMilli(createdMS).UTC()
	return &entry, nil
}

// List returns the latest version of every module, ordered by name.
func (r *Registry) List(ctx context.Context) ([]model.ModuleEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.name, m.version, m.bytes, m.checksum, m.size, m.created_ms
		FROM modules m
		JOIN (SELECT name, MAX(version) AS version FROM modules GROUP BY name) latest
		  ON m.name = latest.name AND m.version = latest.version
		ORDER BY m.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var entries []model.ModuleEntry
	for rows.Next() {
		var (
			entry     model.ModuleEntry
			blob      []byte
			checksum  int64
			createdMS int64
		)
		if err := rows.Scan(&entry.Name, &entry.Version, &blob, &checksum, &entry.Size, &createdMS); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		bytes, err := snappy.Decode(nil, blob)
		if err != nil {
			return nil, fmt.Errorf("decompress module %s v%d: %w", entry.Name, entry.Version, err)
		}
		entry.Bytes = bytes
		entry.Checksum = uint64(checksum)
		entry.CreatedAt = time.UnixMilli(createdMS).UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LoadDir publishes every *.wasm file in dir, using the file stem as the
// module name. Files that fail to publish are logged and skipped so one bad
// module does not block startup. A missing dir is not an error.
func (r *Registry) LoadDir(ctx context.Context, dir string, logger *slog.Logger) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read modules dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wasm") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".wasm")
		bytes, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn("skipping module file", "file", entry.Name(), "err", err)
			continue
		}
		published, err := r.Publish(ctx, name, bytes)
		if err != nil {
			logger.Warn("skipping module file", "file", entry.Name(), "err", err)
			continue
		}
		logger.Info("loaded module", "name", published.Name, "version", published.Version, "size", published.Size)
	}
	return nil
}
