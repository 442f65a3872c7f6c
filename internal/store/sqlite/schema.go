package sqlite

// SchemaVersion is stamped into schema_migrations by EnsureSchema.
const SchemaVersion = "1"

// schemaStatements create the names table and its lookup index.
// name_key holds the case-folded name; name keeps the casing it was given.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS baby_names (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    year INTEGER NOT NULL,
    gender TEXT NOT NULL,
    count INTEGER NOT NULL,
    UNIQUE(name, year, gender)
)`,
	`CREATE INDEX IF NOT EXISTS idx_baby_names_name_key ON baby_names(name_key)`,
}

const insertRecord = `INSERT OR IGNORE INTO baby_names (name, name_key, year, gender, count) VALUES (?, ?, ?, ?, ?)`
