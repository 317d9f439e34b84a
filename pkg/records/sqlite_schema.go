package records

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the violations database
// schema.
const Schema = `
-- Violation records table
CREATE TABLE IF NOT EXISTS violations (
    id TEXT PRIMARY KEY,
    plot_id TEXT NOT NULL,

    violation_type TEXT NOT NULL,
    severity TEXT NOT NULL,
    confidence REAL NOT NULL,
    description TEXT NOT NULL,
    recommended_actions TEXT NOT NULL,
    priority INTEGER NOT NULL,

    detected_at TIMESTAMP NOT NULL,

    -- Audit snapshot of the detection signals, JSON-encoded
    signals TEXT NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_violations_plot_id ON violations(plot_id);
CREATE INDEX IF NOT EXISTS idx_violations_type ON violations(violation_type);
CREATE INDEX IF NOT EXISTS idx_violations_severity ON violations(severity);
CREATE INDEX IF NOT EXISTS idx_violations_detected_at ON violations(detected_at);
`

// InsertSchemaVersion inserts the schema version into the schema_version
// table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
