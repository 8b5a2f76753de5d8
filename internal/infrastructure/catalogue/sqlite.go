package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fragrancefinder/backend/internal/domain"
	_ "modernc.org/sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource loads the catalogue from a table in a SQLite database
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource creates a catalogue source reading table from the database at path
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLiteSource{path: path, table: table}, nil
}

// Name identifies the source in logs
func (s *SQLiteSource) Name() string { return "sqlite:" + s.path + "#" + s.table }

// Load reads every row of the table in insertion order
func (s *SQLiteSource) Load(ctx context.Context) ([]domain.Perfume, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueLoad, err)
	}

	db, err := openDB(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueLoad, err)
	}
	defer db.Close()

	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s FROM %s ORDER BY rowid",
		ColumnBrand, ColumnPerfume, ColumnNotes, ColumnMainAccords, ColumnImage, s.table,
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", domain.ErrCatalogueLoad, s.table, err)
	}
	defer rows.Close()

	cols := columnIndex{
		ColumnBrand:       0,
		ColumnPerfume:     1,
		ColumnNotes:       2,
		ColumnMainAccords: 3,
		ColumnImage:       4,
	}

	var perfumes []domain.Perfume
	for rows.Next() {
		var brand, name, notes, accords, image sql.NullString
		if err := rows.Scan(&brand, &name, &notes, &accords, &image); err != nil {
			return nil, fmt.Errorf("%w: scan row %d: %v", domain.ErrCatalogueLoad, len(perfumes)+1, err)
		}
		row := []string{brand.String, name.String, notes.String, accords.String, image.String}
		perfumes = append(perfumes, MapToPerfume(len(perfumes), row, cols))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueLoad, err)
	}

	log.Printf("[CATALOGUE] Loaded %d perfumes from %s", len(perfumes), s.Name())
	return perfumes, nil
}

// WriteSQLite replaces table in the database at path with perfumes, preserving their order.
func WriteSQLite(ctx context.Context, path, table string, perfumes []domain.Perfume) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", table),
		fmt.Sprintf(`CREATE TABLE %s (
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT NOT NULL DEFAULT '',
			%s TEXT
		)`, table, ColumnBrand, ColumnPerfume, ColumnNotes, ColumnMainAccords, ColumnImage),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("preparing table %s: %w", table, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?)",
		table, ColumnBrand, ColumnPerfume, ColumnNotes, ColumnMainAccords, ColumnImage,
	))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, p := range perfumes {
		if _, err := insert.ExecContext(ctx, p.Brand, p.Name, p.Notes, p.MainAccords, p.Image); err != nil {
			return fmt.Errorf("inserting %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalogue: %w", err)
	}
	return nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	return db, nil
}

// NewSource picks the catalogue source for the configured kind
func NewSource(kind, path, table string) (domain.CatalogueSource, error) {
	switch kind {
	case "csv", "":
		return NewCSVSource(path), nil
	case "sqlite":
		return NewSQLiteSource(path, table)
	default:
		return nil, fmt.Errorf("unknown catalogue source %q", kind)
	}
}
