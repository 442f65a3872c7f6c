package store

import (
	"context"
	"errors"
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing         StoreState = iota // File doesn't exist
	StateUninitialized                     // File exists but no schema
	StateVersionMismatch                   // Schema exists but wrong version
	StateReady                             // Initialized and correct version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StateVersionMismatch:
		return "version mismatch"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

var (
	ErrNotOpen     = errors.New("database not opened")
	ErrNoDataDir   = errors.New("data directory does not exist")
	ErrNoDataFiles = errors.New("no data files found")
)

// NameRecord is one row of the store. The (Name, Year, Gender) triple is unique.
type NameRecord struct {
	Name   string `json:"name"`
	Year   int    `json:"year"`
	Gender string `json:"gender"`
	Count  int    `json:"count"`
}

// LoadResult summarizes a bulk load.
type LoadResult struct {
	RunID       string   `json:"runId"`
	Files       int      `json:"files"`
	FailedFiles []string `json:"failedFiles,omitempty"`
	Inserted    int      `json:"inserted"`
	Malformed   int      `json:"malformed"`
	Duplicates  int      `json:"duplicates"`
}

// Store defines the baby names datastore contract.
// Implementations assume a single process and a single writer.
type Store interface {
	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// EnsureSchema creates the names table, its indexes and the version stamp.
	// It is safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	// CheckState returns the current state of the datastore
	CheckState(ctx context.Context) (StoreState, error)

	// GetSchemaVersion returns the current schema version from the database
	GetSchemaVersion(ctx context.Context) (string, error)

	// LoadFromDirectory ingests every data file in dir.
	LoadFromDirectory(ctx context.Context, dir string) (*LoadResult, error)

	// Create inserts a record. It returns false if the triple already exists.
	Create(ctx context.Context, rec NameRecord) (bool, error)

	// Update replaces the count of a record. It returns false if no record matched.
	Update(ctx context.Context, name string, year int, gender string, count int) (bool, error)

	// Delete removes a record. It returns false if no record matched.
	Delete(ctx context.Context, name string, year int, gender string) (bool, error)

	// SearchByName returns all records for name ordered by year.
	SearchByName(ctx context.Context, name string) ([]NameRecord, error)

	// StatsForName returns nil if the name is not in the store.
	StatsForName(ctx context.Context, name string) (*NameStats, error)
}
