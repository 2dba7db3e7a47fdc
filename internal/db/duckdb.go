package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
)

type DB struct {
	conn *sql.DB
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_build_ordinal START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_entity_ordinal START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_link_id START 1;`,

		`CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			ordinal INTEGER NOT NULL,
			universe TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			finished_at TIMESTAMP,
			entity_count INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS entities (
			ordinal INTEGER NOT NULL,
			build_id TEXT NOT NULL,
			identifier TEXT NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			declaring_type TEXT,
			content_hash TEXT,
			UNIQUE(build_id, identifier)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_build ON entities (build_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_hash ON entities (content_hash)`,

		`CREATE TABLE IF NOT EXISTS links (
			id INTEGER PRIMARY KEY,
			build_id TEXT NOT NULL,
			source TEXT NOT NULL,
			cref TEXT NOT NULL,
			target TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_source ON links (build_id, source)`,
		`CREATE INDEX IF NOT EXISTS idx_links_target ON links (build_id, target)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// --- Build operations ---

type Build struct {
	ID          uuid.UUID
	Universe    string
	StartedAt   time.Time
	FinishedAt  *time.Time
	EntityCount int
}

const buildColumns = `id, universe, started_at, finished_at, entity_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (*Build, error) {
	var b Build
	var id string
	if err := row.Scan(&id, &b.Universe, &b.StartedAt, &b.FinishedAt, &b.EntityCount); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing build id %q: %w", id, err)
	}
	b.ID = parsed
	return &b, nil
}

func (db *DB) InsertBuild(id uuid.UUID, universe string) error {
	_, err := db.conn.Exec(`INSERT INTO builds (id, ordinal, universe) VALUES (?, nextval('seq_build_ordinal'), ?)`, id.String(), universe)
	if err != nil {
		return fmt.Errorf("inserting build: %w", err)
	}
	return nil
}

// FinishBuild marks a build complete. Only finished builds are served.
func (db *DB) FinishBuild(id uuid.UUID, entityCount int) error {
	_, err := db.conn.Exec(
		`UPDATE builds SET finished_at = CURRENT_TIMESTAMP, entity_count = ? WHERE id = ?`,
		entityCount, id.String(),
	)
	return err
}

func (db *DB) GetBuild(id uuid.UUID) (*Build, error) {
	b, err := scanBuild(db.conn.QueryRow(`SELECT `+buildColumns+` FROM builds WHERE id = ?`, id.String()))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// GetLatestBuild returns the most recently started build that finished, or nil.
func (db *DB) GetLatestBuild() (*Build, error) {
	b, err := scanBuild(db.conn.QueryRow(
		`SELECT ` + buildColumns + ` FROM builds WHERE finished_at IS NOT NULL
		 ORDER BY ordinal DESC LIMIT 1`,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (db *DB) ListBuilds() ([]Build, error) {
	rows, err := db.conn.Query(`SELECT ` + buildColumns + ` FROM builds ORDER BY ordinal DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

// DeleteBuild removes a build with its entities and links.
func (db *DB) DeleteBuild(id uuid.UUID) error {
	for _, q := range []string{
		`DELETE FROM links WHERE build_id = ?`,
		`DELETE FROM entities WHERE build_id = ?`,
		`DELETE FROM builds WHERE id = ?`,
	} {
		if _, err := db.conn.Exec(q, id.String()); err != nil {
			return fmt.Errorf("deleting build %s: %w", id, err)
		}
	}
	return nil
}

// --- Entity operations ---

type Entity struct {
	BuildID       uuid.UUID
	Identifier    string
	Kind          string
	Name          string
	DeclaringType string
	ContentHash   string
}

const entityColumns = `identifier, kind, name, declaring_type, content_hash`

func scanEntity(row scanner, buildID uuid.UUID) (*Entity, error) {
	e := Entity{BuildID: buildID}
	var declaring, hash sql.NullString
	if err := row.Scan(&e.Identifier, &e.Kind, &e.Name, &declaring, &hash); err != nil {
		return nil, err
	}
	e.DeclaringType = declaring.String
	e.ContentHash = hash.String
	return &e, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (db *DB) InsertEntity(e *Entity) error {
	_, err := db.conn.Exec(
		`INSERT INTO entities (ordinal, build_id, identifier, kind, name, declaring_type, content_hash)
		 VALUES (nextval('seq_entity_ordinal'), ?, ?, ?, ?, ?, ?)`,
		e.BuildID.String(), e.Identifier, e.Kind, e.Name, nullable(e.DeclaringType), nullable(e.ContentHash),
	)
	if err != nil {
		return fmt.Errorf("inserting entity %s: %w", e.Identifier, err)
	}
	return nil
}

// GetEntity looks up an identifier in a build: exact match first, then the
// first case-insensitive match in insertion order.
func (db *DB) GetEntity(buildID uuid.UUID, identifier string) (*Entity, error) {
	e, err := scanEntity(db.conn.QueryRow(
		`SELECT `+entityColumns+` FROM entities WHERE build_id = ? AND identifier = ?`,
		buildID.String(), identifier,
	), buildID)
	if err == nil {
		return e, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	e, err = scanEntity(db.conn.QueryRow(
		`SELECT `+entityColumns+` FROM entities WHERE build_id = ? AND lower(identifier) = lower(?)
		 ORDER BY ordinal LIMIT 1`,
		buildID.String(), identifier,
	), buildID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ListEntities returns the entities of a build in insertion order, optionally
// restricted to one kind.
func (db *DB) ListEntities(buildID uuid.UUID, kind string) ([]Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE build_id = ?`
	params := []any{buildID.String()}
	if kind != "" {
		query += ` AND kind = ?`
		params = append(params, kind)
	}
	rows, err := db.conn.Query(query+` ORDER BY ordinal`, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		e, err := scanEntity(rows, buildID)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	return entities, rows.Err()
}

func (db *DB) CountEntities(buildID uuid.UUID) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM entities WHERE build_id = ?`, buildID.String()).Scan(&count)
	return count, err
}

// --- Link operations ---

type Link struct {
	Source string
	Cref   string
	Target string
}

func (db *DB) InsertLink(buildID uuid.UUID, l Link) error {
	_, err := db.conn.Exec(
		`INSERT INTO links (id, build_id, source, cref, target) VALUES (nextval('seq_link_id'), ?, ?, ?, ?)`,
		buildID.String(), l.Source, l.Cref, l.Target,
	)
	if err != nil {
		return fmt.Errorf("inserting link %s -> %s: %w", l.Source, l.Target, err)
	}
	return nil
}

// GetLinks returns the resolved cross references of source in insertion order.
func (db *DB) GetLinks(buildID uuid.UUID, source string) ([]Link, error) {
	return db.queryLinks(`SELECT source, cref, target FROM links WHERE build_id = ? AND source = ? ORDER BY id`,
		buildID.String(), source)
}

// GetBacklinks returns the links pointing at target.
func (db *DB) GetBacklinks(buildID uuid.UUID, target string) ([]Link, error) {
	return db.queryLinks(`SELECT source, cref, target FROM links WHERE build_id = ? AND target = ? ORDER BY id`,
		buildID.String(), target)
}

func (db *DB) queryLinks(query string, params ...any) ([]Link, error) {
	rows, err := db.conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.Source, &l.Cref, &l.Target); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
