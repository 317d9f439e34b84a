package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"landguard-hq/landguard/pkg/detection"
	"landguard-hq/landguard/pkg/rules"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/violations.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "records.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists a violation record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, violation *Violation) error {
	actions, err := json.Marshal(violation.RecommendedActions)
	if err != nil {
		return NewStorageError("sqlite", "marshal_actions", err)
	}
	signals, err := json.Marshal(violation.Signals)
	if err != nil {
		return NewStorageError("sqlite", "marshal_signals", err)
	}

	query := `
		INSERT INTO violations (
			id, plot_id, violation_type, severity, confidence,
			description, recommended_actions, priority, detected_at, signals
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		violation.ID, violation.PlotID,
		string(violation.ViolationType), string(violation.Severity), violation.Confidence,
		violation.Description, string(actions), violation.Priority,
		violation.DetectedAt.UTC(), string(signals),
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Get retrieves a record by ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*Violation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, plot_id, violation_type, severity, confidence,
		        description, recommended_actions, priority, detected_at, signals
		 FROM violations WHERE id = ?`, id)

	violation, err := scanViolation(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}
	return violation, nil
}

// Query retrieves records matching the filters, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*Violation, error) {
	whereClause, args := buildWhereClause(query)

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	sqlQuery := `SELECT id, plot_id, violation_type, severity, confidence,
	                    description, recommended_actions, priority, detected_at, signals
	             FROM violations` + whereClause +
		` ORDER BY detected_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, query.Offset)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var results []*Violation
	for rows.Next() {
		violation, err := scanViolation(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		results = append(results, violation)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return results, nil
}

// CountByType returns record counts grouped by violation type.
func (s *SQLiteStorage) CountByType(ctx context.Context) (map[rules.ViolationType]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT violation_type, COUNT(*) FROM violations GROUP BY violation_type`)
	if err != nil {
		return nil, NewStorageError("sqlite", "count_by_type", err)
	}
	defer rows.Close()

	counts := make(map[rules.ViolationType]int64)
	for rows.Next() {
		var violationType string
		var count int64
		if err := rows.Scan(&violationType, &count); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		counts[rules.ViolationType(violationType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "count_by_type", err)
	}

	return counts, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// buildWhereClause assembles the WHERE clause and its arguments from the
// query filters.
func buildWhereClause(query *Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if query.PlotID != "" {
		conditions = append(conditions, "plot_id = ?")
		args = append(args, query.PlotID)
	}
	if query.ViolationType != "" {
		conditions = append(conditions, "violation_type = ?")
		args = append(args, string(query.ViolationType))
	}
	if query.Severity != "" {
		conditions = append(conditions, "severity = ?")
		args = append(args, string(query.Severity))
	}
	if !query.Since.IsZero() {
		conditions = append(conditions, "detected_at >= ?")
		args = append(args, query.Since.UTC())
	}
	if !query.Until.IsZero() {
		conditions = append(conditions, "detected_at < ?")
		args = append(args, query.Until.UTC())
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// rowScanner abstracts sql.Row and sql.Rows for scanViolation.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanViolation reads one violation row.
func scanViolation(row rowScanner) (*Violation, error) {
	var v Violation
	var violationType, severity, actionsJSON, signalsJSON string

	err := row.Scan(
		&v.ID, &v.PlotID, &violationType, &severity, &v.Confidence,
		&v.Description, &actionsJSON, &v.Priority, &v.DetectedAt, &signalsJSON,
	)
	if err != nil {
		return nil, err
	}

	v.ViolationType = rules.ViolationType(violationType)
	v.Severity = rules.Severity(severity)

	if err := json.Unmarshal([]byte(actionsJSON), &v.RecommendedActions); err != nil {
		return nil, fmt.Errorf("unmarshal recommended actions: %w", err)
	}
	var signals detection.Signals
	if err := json.Unmarshal([]byte(signalsJSON), &signals); err != nil {
		return nil, fmt.Errorf("unmarshal signals: %w", err)
	}
	v.Signals = signals

	return &v, nil
}
