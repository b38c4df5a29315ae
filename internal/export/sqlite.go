// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citegraph/pkg/types"
)

var sqliteSchema = []string{
	`CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE papers (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT NOT NULL,
		year INTEGER,
		venue TEXT,
		url TEXT
	)`,
	`CREATE TABLE connections (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		target TEXT NOT NULL
	)`,
	`CREATE INDEX idx_connections_source ON connections(source)`,
	`CREATE INDEX idx_connections_target ON connections(target)`,
	`CREATE TABLE collaborations (
		author_a TEXT NOT NULL,
		author_b TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (author_a, author_b)
	)`,
	`CREATE TABLE author_papers (
		author TEXT NOT NULL,
		position INTEGER NOT NULL,
		paper_id TEXT NOT NULL,
		PRIMARY KEY (author, position)
	)`,
}

// WriteSQLite writes both networks into a fresh database at path, replacing
// any existing file. All rows are inserted in one transaction.
func WriteSQLite(ctx context.Context, path string, meta Meta, g *types.PaperGraph, cg types.CollaborationGraph) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing old database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMeta(ctx, tx, meta); err != nil {
		return err
	}
	if err := insertPapers(ctx, tx, g); err != nil {
		return err
	}
	if err := insertConnections(ctx, tx, g.Edges); err != nil {
		return err
	}
	if err := insertCollaborations(ctx, tx, cg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return db.Close()
}

func insertMeta(ctx context.Context, tx *sql.Tx, meta Meta) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('run_id', ?), ('generated_at', ?)`,
		meta.RunID, meta.GeneratedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting meta: %w", err)
	}
	return nil
}

func insertPapers(ctx context.Context, tx *sql.Tx, g *types.PaperGraph) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, authors, year, venue, url) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing paper insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range g.PaperIDs() {
		rec := g.Papers[id]
		authors := rec.Authors
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, _ := json.Marshal(authors)
		var year sql.NullInt64
		if rec.Year != nil {
			year = sql.NullInt64{Int64: int64(*rec.Year), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, rec.Title, string(authorsJSON), year, rec.Venue, rec.URL); err != nil {
			return fmt.Errorf("inserting paper %s: %w", id, err)
		}
	}
	return nil
}

func insertConnections(ctx context.Context, tx *sql.Tx, edges []types.Edge) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO connections (source, target) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing connection insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, e.Source, e.Target); err != nil {
			return fmt.Errorf("inserting connection %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

func insertCollaborations(ctx context.Context, tx *sql.Tx, cg types.CollaborationGraph) error {
	pairStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO collaborations (author_a, author_b, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing collaboration insert: %w", err)
	}
	defer pairStmt.Close()

	for _, p := range cg.Pairs() {
		if _, err := pairStmt.ExecContext(ctx, p.A, p.B, cg.Collaborations[p]); err != nil {
			return fmt.Errorf("inserting collaboration %s/%s: %w", p.A, p.B, err)
		}
	}

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO author_papers (author, position, paper_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing author paper insert: %w", err)
	}
	defer paperStmt.Close()

	for _, a := range cg.Authors() {
		for i, id := range cg.AuthorPapers[a] {
			if _, err := paperStmt.ExecContext(ctx, a, i, id); err != nil {
				return fmt.Errorf("inserting author paper %s: %w", a, err)
			}
		}
	}
	return nil
}

// ReadSQLite loads both networks from a database written by WriteSQLite.
// Connections come back in their original order.
func ReadSQLite(path string) (*types.PaperGraph, types.CollaborationGraph, error) {
	cg := types.NewCollaborationGraph()
	if _, err := os.Stat(path); err != nil {
		return nil, cg, fmt.Errorf("opening database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, cg, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	g := types.NewPaperGraph()

	rows, err := db.Query(`SELECT id, title, authors, year, venue, url FROM papers ORDER BY id`)
	if err != nil {
		return nil, cg, fmt.Errorf("querying papers: %w", err)
	}
	for rows.Next() {
		var (
			rec         types.PaperRecord
			authorsJSON string
			year        sql.NullInt64
			venue, url  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &authorsJSON, &year, &venue, &url); err != nil {
			rows.Close()
			return nil, cg, fmt.Errorf("scanning paper: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &rec.Authors)
		if year.Valid {
			y := int(year.Int64)
			rec.Year = &y
		}
		rec.Venue = venue.String
		rec.URL = url.String
		g.AddPaper(rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, cg, fmt.Errorf("reading papers: %w", err)
	}

	rows, err = db.Query(`SELECT source, target FROM connections ORDER BY seq`)
	if err != nil {
		return nil, cg, fmt.Errorf("querying connections: %w", err)
	}
	for rows.Next() {
		var e types.Edge
		if err := rows.Scan(&e.Source, &e.Target); err != nil {
			rows.Close()
			return nil, cg, fmt.Errorf("scanning connection: %w", err)
		}
		g.Edges = append(g.Edges, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, cg, fmt.Errorf("reading connections: %w", err)
	}

	rows, err = db.Query(`SELECT author_a, author_b, count FROM collaborations`)
	if err != nil {
		return nil, cg, fmt.Errorf("querying collaborations: %w", err)
	}
	for rows.Next() {
		var (
			p types.AuthorPair
			n int
		)
		if err := rows.Scan(&p.A, &p.B, &n); err != nil {
			rows.Close()
			return nil, cg, fmt.Errorf("scanning collaboration: %w", err)
		}
		cg.Collaborations[p] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, cg, fmt.Errorf("reading collaborations: %w", err)
	}

	rows, err = db.Query(`SELECT author, paper_id FROM author_papers ORDER BY author, position`)
	if err != nil {
		return nil, cg, fmt.Errorf("querying author papers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var author, id string
		if err := rows.Scan(&author, &id); err != nil {
			return nil, cg, fmt.Errorf("scanning author paper: %w", err)
		}
		cg.AuthorPapers[author] = append(cg.AuthorPapers[author], id)
	}
	if err := rows.Err(); err != nil {
		return nil, cg, fmt.Errorf("reading author papers: %w", err)
	}

	return g, cg, nil
}

// ReadSQLiteMeta returns the run metadata stored in a database written by
// WriteSQLite.
func ReadSQLiteMeta(path string) (Meta, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return Meta{}, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var (
		meta      Meta
		generated string
	)
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'run_id'`).Scan(&meta.RunID); err != nil {
		return Meta{}, fmt.Errorf("reading run_id: %w", err)
	}
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'generated_at'`).Scan(&generated); err != nil {
		return Meta{}, fmt.Errorf("reading generated_at: %w", err)
	}
	meta.GeneratedAt, err = time.Parse(time.RFC3339Nano, generated)
	if err != nil {
		return Meta{}, fmt.Errorf("parsing generated_at: %w", err)
	}
	return meta, nil
}
