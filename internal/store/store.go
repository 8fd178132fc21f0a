// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps an append-only log of tool calls in SQLite: the
// arguments a model sent, the serialized result it received and the
// outcome status. Records are never updated in place.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-tools/pkg/types"
)

const (
	dbFile       = "research-tools.db"
	defaultLimit = 20
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("tool call not found")

// Store manages the tool-call database.
type Store struct {
	db      *sql.DB
	dataDir string

	// now is replaced in tests.
	now func() time.Time
}

// Open opens or creates the database at dataDir/research-tools.db and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = types.DefaultConfig().Store.DataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string { return s.dataDir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tool_calls (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			tool TEXT NOT NULL,
			arguments TEXT NOT NULL,
			result TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_calls_tool ON tool_calls(tool)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_calls_created_at ON tool_calls(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append inserts call. It assigns a UUID when call.ID is empty and stamps
// CreatedAt when it is zero; both are written back to call.
func (s *Store) Append(ctx context.Context, call *types.ToolCall) error {
	if call.Tool == "" {
		return fmt.Errorf("tool call has no tool name")
	}
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = s.now().UTC()
	}
	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	result := call.Result
	if len(result) == 0 {
		result = json.RawMessage("null")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls (id, tool, arguments, result, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		call.ID, call.Tool, string(args), string(result), call.Status,
		call.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting tool call %s: %w", call.ID, err)
	}
	return nil
}

// ListOptions filters List.
type ListOptions struct {
	// Tool restricts results to one tool name.
	Tool string

	// Status restricts results to one status.
	Status string

	// Contains matches a substring of the stored arguments.
	Contains string

	// Limit caps the number of records. Zero uses the store default;
	// a negative value returns everything.
	Limit int
}

// List returns tool calls newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.ToolCall, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, tool, arguments, result, status, created_at FROM tool_calls WHERE 1=1`)
	if opts.Tool != "" {
		qb.WriteString(` AND tool = ?`)
		args = append(args, opts.Tool)
	}
	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, opts.Status)
	}
	if opts.Contains != "" {
		qb.WriteString(` AND instr(arguments, ?) > 0`)
		args = append(args, opts.Contains)
	}
	qb.WriteString(` ORDER BY rowid DESC`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying tool calls: %w", err)
	}
	defer rows.Close()

	var calls []types.ToolCall
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tool calls: %w", err)
	}
	return calls, nil
}

// Get returns the tool call with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*types.ToolCall, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tool, arguments, result, status, created_at FROM tool_calls WHERE id = ?`, id)
	call, err := scanCall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// Count returns the number of stored tool calls.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM tool_calls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tool calls: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCall(sc scanner) (types.ToolCall, error) {
	var (
		call             types.ToolCall
		args, result, ts string
	)
	if err := sc.Scan(&call.ID, &call.Tool, &args, &result, &call.Status, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return call, err
		}
		return call, fmt.Errorf("scanning tool call: %w", err)
	}
	call.Arguments = json.RawMessage(args)
	call.Result = json.RawMessage(result)
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		call.CreatedAt = t
	}
	return call, nil
}
