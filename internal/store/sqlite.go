package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/communitysubs/subcue/internal/cue"
)

//go:embed schema.sql
var schema string

// SQLite is the file-backed Store implementation.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and
// initializes the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// DefaultPath is the database location used when no --db flag or
// SUBCUE_DB variable is set: XDG data dir, falling back to the home
// directory.
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "subcue")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "subcue.db"), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Cue(ctx context.Context, id string) (cue.Cue, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, transcript_id, start_ms, end_ms, text, layer, bold, italics, align, justify
		FROM cues WHERE id = ?
	`, id)

	c, err := scanCue(row)
	if err == sql.ErrNoRows {
		return cue.Cue{}, fmt.Errorf("cue %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return cue.Cue{}, err
	}
	return c, nil
}

func (s *SQLite) CuesByTranscript(ctx context.Context, transcriptID string) ([]cue.Cue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transcript_id, start_ms, end_ms, text, layer, bold, italics, align, justify
		FROM cues WHERE transcript_id = ?
	`, transcriptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cues := []cue.Cue{}
	for rows.Next() {
		c, err := scanCue(rows)
		if err != nil {
			return nil, err
		}
		cues = append(cues, c)
	}
	return cues, rows.Err()
}

func (s *SQLite) Put(ctx context.Context, c cue.Cue) error {
	_, err := s.db.ExecContext(ctx, upsertCueSQL, upsertCueArgs(c)...)
	return err
}

func (s *SQLite) PutBulk(ctx context.Context, cues []cue.Cue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, c := range cues {
		if _, err := tx.ExecContext(ctx, upsertCueSQL, upsertCueArgs(c)...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) DeleteBulk(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cues WHERE id = ?", id); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

const upsertCueSQL = `
	INSERT INTO cues (id, transcript_id, start_ms, end_ms, text, layer, bold, italics, align, justify)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		transcript_id = excluded.transcript_id,
		start_ms = excluded.start_ms,
		end_ms = excluded.end_ms,
		text = excluded.text,
		layer = excluded.layer,
		bold = excluded.bold,
		italics = excluded.italics,
		align = excluded.align,
		justify = excluded.justify
`

func upsertCueArgs(c cue.Cue) []any {
	var align, justify sql.NullString
	if c.Settings != nil {
		align = sql.NullString{String: string(c.Settings.Align), Valid: true}
		justify = sql.NullString{String: string(c.Settings.Justify), Valid: true}
	}
	return []any{
		c.ID, c.TranscriptID, c.Start, c.End, c.Text,
		c.Layer, c.Bold, c.Italics, align, justify,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCue(row scannable) (cue.Cue, error) {
	var c cue.Cue
	var align, justify sql.NullString
	err := row.Scan(
		&c.ID, &c.TranscriptID, &c.Start, &c.End, &c.Text,
		&c.Layer, &c.Bold, &c.Italics, &align, &justify,
	)
	if err != nil {
		return cue.Cue{}, err
	}
	if align.Valid || justify.Valid {
		c.Settings = &cue.Settings{
			Align:   cue.Placement(align.String),
			Justify: cue.Placement(justify.String),
		}
	}
	return c, nil
}
