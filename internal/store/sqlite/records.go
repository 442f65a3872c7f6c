package sqlite

import (
	"context"
	"fmt"

	"github.com/maloquacious/babynames/internal/store"
)

// Create inserts rec. It returns false without touching the stored row when
// the (name, year, gender) triple already exists.
func (s *SQLiteStore) Create(ctx context.Context, rec store.NameRecord) (bool, error) {
	if s.db == nil {
		return false, store.ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, insertRecord, rec.Name, store.NameKey(rec.Name), rec.Year, rec.Gender, rec.Count)
	if err != nil {
		return false, fmt.Errorf("failed to insert record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Update replaces the count of every record matching name (any case),
// year and gender. It returns false when nothing matched.
func (s *SQLiteStore) Update(ctx context.Context, name string, year int, gender string, count int) (bool, error) {
	if s.db == nil {
		return false, store.ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE baby_names SET count = ?
		WHERE name_key = ? AND year = ? AND gender = ?
	`, count, store.NameKey(name), year, gender)
	if err != nil {
		return false, fmt.Errorf("failed to update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes every record matching name (any case), year and gender.
// It returns false when nothing matched.
func (s *SQLiteStore) Delete(ctx context.Context, name string, year int, gender string) (bool, error) {
	if s.db == nil {
		return false, store.ErrNotOpen
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM baby_names
		WHERE name_key = ? AND year = ? AND gender = ?
	`, store.NameKey(name), year, gender)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// SearchByName returns every record for name (any case) ordered by year.
// The result is empty, not nil, when the name is unknown.
func (s *SQLiteStore) SearchByName(ctx context.Context, name string) ([]store.NameRecord, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, year, gender, count
		FROM baby_names
		WHERE name_key = ?
		ORDER BY year, gender, id
	`, store.NameKey(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []store.NameRecord{}
	for rows.Next() {
		var rec store.NameRecord
		if err := rows.Scan(&rec.Name, &rec.Year, &rec.Gender, &rec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

// StatsForName returns nil when the name is unknown.
func (s *SQLiteStore) StatsForName(ctx context.Context, name string) (*store.NameStats, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, SUM(count)
		FROM baby_names
		WHERE name_key = ?
		GROUP BY year
		ORDER BY year
	`, store.NameKey(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query year totals: %w", err)
	}
	defer rows.Close()

	var totals []store.YearTotal
	for rows.Next() {
		var yt store.YearTotal
		if err := rows.Scan(&yt.Year, &yt.Total); err != nil {
			return nil, fmt.Errorf("failed to scan year total: %w", err)
		}
		totals = append(totals, yt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return store.ComputeStats(totals), nil
}
