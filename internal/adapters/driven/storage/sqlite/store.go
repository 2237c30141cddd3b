package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure SectionStore implements the interface.
var _ driven.SectionStore = (*SectionStore)(nil)

// DatabaseFile is the file name of the database inside the data directory.
const DatabaseFile = "specs.db"

var collectionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SectionStore is a SQLite-backed implementation of driven.SectionStore.
type SectionStore struct {
	db         *sql.DB
	path       string
	collection string
	table      string
}

// NewSectionStore opens (or creates) the database in dataDir and runs
// pending migrations. If dataDir is empty, defaults to ~/.specmcp/data.
func NewSectionStore(dataDir, collection string) (*SectionStore, error) {
	if collection == "" {
		collection = domain.DefaultCollection
	}
	if !collectionName.MatchString(collection) {
		return nil, fmt.Errorf("%w: collection name %q", domain.ErrInvalidInput, collection)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".specmcp", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SectionStore{
		db:         db,
		path:       dbPath,
		collection: collection,
		table:      "sections_" + collection,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SectionStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SectionStore) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *SectionStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert drops the collection's table, recreates it from sections and records
// a new generation, all in one transaction.
func (s *SectionStore) Upsert(ctx context.Context, sections []domain.Section) error {
	dims, err := vector.CheckBatch(sections)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmts := []string{
		`DROP TABLE IF EXISTS ` + s.table,
		`CREATE TABLE ` + s.table + ` (
			seq     INTEGER PRIMARY KEY AUTOINCREMENT,
			id      TEXT NOT NULL,
			title   TEXT NOT NULL,
			content TEXT NOT NULL,
			url     TEXT NOT NULL,
			spec    TEXT NOT NULL,
			vector  BLOB NOT NULL
		)`,
		`CREATE INDEX idx_` + s.table + `_url ON ` + s.table + `(url)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("recreating collection: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO `+s.table+` (id, title, content, url, spec, vector) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, sec := range sections {
		if _, err := insert.ExecContext(ctx,
			sec.ID, sec.Title, sec.Content, sec.URL, string(sec.Spec), float32SliceToBytes(sec.Vector)); err != nil {
			return fmt.Errorf("inserting section %s: %w", sec.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO generations (collection, id, sections, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection) DO UPDATE SET
			id = excluded.id,
			sections = excluded.sections,
			dimensions = excluded.dimensions,
			created_at = excluded.created_at
	`, s.collection, uuid.New().String(), len(sections), dims, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording generation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// GetByURL returns the first inserted section with the given URL.
func (s *SectionStore) GetByURL(ctx context.Context, url string) (*domain.Section, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if !stats.Exists {
		return nil, domain.ErrNotFound
	}

	var sec domain.Section
	var spec string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, title, content, url, spec FROM `+s.table+` WHERE url = ? ORDER BY seq LIMIT 1`, url).
		Scan(&sec.ID, &sec.Title, &sec.Content, &sec.URL, &spec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying section: %w", err)
	}
	sec.Spec = domain.SpecFamily(spec)
	return &sec, nil
}

// Search scans every section of the collection and ranks by cosine distance.
func (s *SectionStore) Search(ctx context.Context, vec []float32, limit int) ([]domain.Section, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if !stats.Exists {
		return []domain.Section{}, nil
	}
	if err := vector.CheckQuery(vec, stats.Dimensions); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, url, spec, vector FROM `+s.table+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var all []domain.Section
	for rows.Next() {
		var sec domain.Section
		var spec string
		var blob []byte
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Content, &sec.URL, &spec, &blob); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sec.Spec = domain.SpecFamily(spec)
		sec.Vector = bytesToFloat32Slice(blob)
		all = append(all, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}

	return vector.Rank(vec, all, limit), nil
}

// Stats reads the collection's generation row.
func (s *SectionStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, sections, dimensions, created_at FROM generations WHERE collection = ?`, s.collection).
		Scan(&stats.Generation, &stats.Sections, &stats.Dimensions, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StoreStats{}, nil
	}
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("%w: reading generation: %w", domain.ErrStoreUnavailable, err)
	}

	stats.Exists = true
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		stats.CreatedAt = t
	}
	return stats, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
