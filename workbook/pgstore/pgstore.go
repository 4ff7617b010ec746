// Package pgstore persists a workbook.Snapshot to PostgreSQL via pgx,
// generalizing the teacher's SQL builtin's context/error handling
// conventions (interpreter/builtins_sql.go) to a typed storage backend
// instead of a scripting-language SQL surface.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sheetengine/workbook"
)

// Store persists workbook snapshots in a cells table: one row per
// (sheet, address), holding the formula/literal source text and an
// is_formula flag.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL at dsn and ensures the cells table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sheetengine_cells (
	sheet      TEXT NOT NULL,
	cell       TEXT NOT NULL,
	is_formula BOOLEAN NOT NULL,
	source     TEXT NOT NULL,
	PRIMARY KEY (sheet, cell)
)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("pgstore: ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Load reads every stored cell into a workbook.Snapshot.
func (s *Store) Load(ctx context.Context) (workbook.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT sheet, cell, is_formula, source FROM sheetengine_cells`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: load: %w", err)
	}
	defer rows.Close()

	snapshot := make(workbook.Snapshot)
	for rows.Next() {
		var sheet, cell, source string
		var isFormula bool
		if err := rows.Scan(&sheet, &cell, &isFormula, &source); err != nil {
			return nil, fmt.Errorf("pgstore: scan: %w", err)
		}
		bucket, ok := snapshot[sheet]
		if !ok {
			bucket = make(map[string]workbook.CellSpec)
			snapshot[sheet] = bucket
		}
		bucket[cell] = workbook.CellSpec{IsFormula: isFormula, Source: source}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: rows: %w", err)
	}
	return snapshot, nil
}

// Save replaces the stored workbook with snapshot inside one transaction.
func (s *Store) Save(ctx context.Context, snapshot workbook.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sheetengine_cells`); err != nil {
		return fmt.Errorf("pgstore: clear: %w", err)
	}
	for sheet, cells := range snapshot {
		for cell, spec := range cells {
			_, err := tx.Exec(ctx,
				`INSERT INTO sheetengine_cells (sheet, cell, is_formula, source) VALUES ($1, $2, $3, $4)`,
				sheet, cell, spec.IsFormula, spec.Source)
			if err != nil {
				return fmt.Errorf("pgstore: insert %s!%s: %w", sheet, cell, err)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgstore: commit: %w", err)
	}
	return nil
}
