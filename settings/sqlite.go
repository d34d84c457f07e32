// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package settings

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gogpu/emuhost"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Setting keys.
const (
	keyBackend         = "renderer.backend"
	keyGLDriver        = "renderer.gl_driver"
	keyStereo          = "renderer.stereo"
	keyPreferGLES      = "renderer.prefer_gles"
	keyDocked          = "system.docked"
	keyMinClientWidth  = "ui.min_client_width"
	keyMinClientHeight = "ui.min_client_height"
	keyResolutionScale = "renderer.resolution_scale"
)

// SQLiteStore persists settings as key/value rows in a SQLite database.
// Keys missing from the database take their Defaults value.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("settings: create directory: %w", err)
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("settings: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("settings: connect to database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("settings: create schema: %w", err)
	}
	emuhost.Logger().Debug("settings: database opened", "path", path)
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the stored settings.
func (s *SQLiteStore) Load(ctx context.Context) (Values, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return Values{}, fmt.Errorf("settings: query: %w", err)
	}
	defer rows.Close()

	v := Defaults()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Values{}, fmt.Errorf("settings: scan: %w", err)
		}
		if err := v.set(key, value); err != nil {
			return Values{}, fmt.Errorf("settings: %s: %w", key, err)
		}
	}
	if err := rows.Err(); err != nil {
		return Values{}, fmt.Errorf("settings: query: %w", err)
	}
	return v, nil
}

// Save writes every setting in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, v Values) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("settings: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO settings(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return fmt.Errorf("settings: prepare: %w", err)
	}
	defer stmt.Close()

	for _, kv := range v.pairs() {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("settings: write %s: %w", kv[0], err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("settings: commit: %w", err)
	}
	return nil
}

func (v Values) pairs() [][2]string {
	return [][2]string{
		{keyBackend, v.Backend.String()},
		{keyGLDriver, v.GLDriver},
		{keyStereo, strconv.FormatBool(v.Stereo)},
		{keyPreferGLES, strconv.FormatBool(v.PreferGLES)},
		{keyDocked, strconv.FormatBool(v.Docked)},
		{keyMinClientWidth, strconv.Itoa(v.MinClientWidth)},
		{keyMinClientHeight, strconv.Itoa(v.MinClientHeight)},
		{keyResolutionScale, strconv.FormatUint(uint64(v.ResolutionScale), 10)},
	}
}

// set applies one stored key. Unknown keys are ignored so that newer
// databases still load.
func (v *Values) set(key, value string) error {
	var err error
	switch key {
	case keyBackend:
		v.Backend, err = ParseBackend(value)
	case keyGLDriver:
		v.GLDriver = value
	case keyStereo:
		v.Stereo, err = strconv.ParseBool(value)
	case keyPreferGLES:
		v.PreferGLES, err = strconv.ParseBool(value)
	case keyDocked:
		v.Docked, err = strconv.ParseBool(value)
	case keyMinClientWidth:
		v.MinClientWidth, err = strconv.Atoi(value)
	case keyMinClientHeight:
		v.MinClientHeight, err = strconv.Atoi(value)
	case keyResolutionScale:
		var n uint64
		n, err = strconv.ParseUint(value, 10, 32)
		v.ResolutionScale = uint32(n)
	}
	return err
}
