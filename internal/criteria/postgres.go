package criteria

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// PostgresStore keeps criteria in a single table ordered by insertion.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS criteria (
		name TEXT PRIMARY KEY,
		explanation TEXT NOT NULL,
		position BIGSERIAL
	)`); err != nil {
		return fmt.Errorf("failed to create criteria table: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM criteria`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return s.Reset(ctx)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, explanation FROM criteria ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Explanation); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, name string) (Entry, error) {
	e := Entry{Name: name}
	err := s.db.QueryRowContext(ctx, `SELECT explanation FROM criteria WHERE name = $1`, name).Scan(&e.Explanation)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownCriterion, name)
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *PostgresStore) Put(ctx context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO criteria (name, explanation) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET explanation = EXCLUDED.explanation`,
		entry.Name, entry.Explanation)
	return err
}

// Reset drops custom entries and rewrites the defaults in their original order.
func (s *PostgresStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM criteria WHERE NOT (name = ANY($1))`, pq.Array(defaultNames())); err != nil {
		return err
	}
	for _, e := range defaults {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO criteria (name, explanation) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET explanation = EXCLUDED.explanation`,
			e.Name, e.Explanation); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
