package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"memorize/internal/stack"
)

const schemaVersion = 1

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS stacks (
            window_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            frames TEXT NOT NULL,
            PRIMARY KEY (window_id, position)
        )`,
	}
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", query, err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) WithTx(fn func(*sql.Tx) error) error {
	if s.db == nil {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	return nil
}

func (s *SQLiteStore) Load(window string) ([][]stack.Record, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(
		"SELECT frames FROM stacks WHERE window_id = ? ORDER BY position",
		window,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stacks: %w", err)
	}
	defer rows.Close()

	var stacks [][]stack.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan stack: %w", err)
		}
		var records []stack.Record
		if err := json.Unmarshal([]byte(data), &records); err != nil {
			return nil, fmt.Errorf("failed to decode stack of %s: %w", window, err)
		}
		stacks = append(stacks, records)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stacks: %w", err)
	}

	return stacks, nil
}

// Save replaces everything stored for window.
func (s *SQLiteStore) Save(window string, stacks [][]stack.Record) error {
	return s.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM stacks WHERE window_id = ?", window); err != nil {
			return fmt.Errorf("failed to delete existing stacks: %w", err)
		}

		stmt, err := tx.Prepare(
			"INSERT INTO stacks (window_id, position, frames) VALUES (?, ?, ?)",
		)
		if err != nil {
			return fmt.Errorf("failed to prepare stack insert statement: %w", err)
		}
		defer stmt.Close()

		for i, records := range stacks {
			data, err := json.Marshal(records)
			if err != nil {
				return fmt.Errorf("failed to encode stack %d: %w", i, err)
			}
			if _, err := stmt.Exec(window, i, string(data)); err != nil {
				return fmt.Errorf("failed to insert stack %d: %w", i, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Windows() ([]string, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query("SELECT DISTINCT window_id FROM stacks ORDER BY window_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	defer rows.Close()

	var windows []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return ErrStoreClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}
