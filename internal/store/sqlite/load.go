package sqlite

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/maloquacious/babynames/internal/ingest"
	"github.com/maloquacious/babynames/internal/store"
)

type fileResult struct {
	inserted   int
	duplicates int
	malformed  int
}

// LoadFromDirectory ingests every data file in dir. Malformed rows, including
// rows longer than ingest.MaxLineLength, and duplicate triples are skipped.
// A file that cannot be read is rolled back and recorded in FailedFiles; the
// load continues with the next file.
// Only a missing directory, a directory without data files, or a cancelled
// context fail the whole load.
func (s *SQLiteStore) LoadFromDirectory(ctx context.Context, dir string) (*store.LoadResult, error) {
	if s.db == nil {
		return nil, store.ErrNotOpen
	}

	files, err := ingest.FindFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &store.LoadResult{RunID: uuid.NewString()}
	s.log.Info("load %s: %d file(s) in %s", result.RunID, len(files), dir)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fr, err := s.loadFile(ctx, path)
		if err != nil {
			s.log.Warn("load %s: skipped %s: %v", result.RunID, filepath.Base(path), err)
			result.FailedFiles = append(result.FailedFiles, path)
			continue
		}

		s.log.Debug("load %s: %s inserted=%d duplicates=%d malformed=%d",
			result.RunID, filepath.Base(path), fr.inserted, fr.duplicates, fr.malformed)
		result.Files++
		result.Inserted += fr.inserted
		result.Duplicates += fr.duplicates
		result.Malformed += fr.malformed
	}

	s.log.Info("load %s: inserted %s record(s) from %d file(s), %s duplicate(s), %s malformed",
		result.RunID,
		humanize.Comma(int64(result.Inserted)),
		result.Files,
		humanize.Comma(int64(result.Duplicates)),
		humanize.Comma(int64(result.Malformed)))

	return result, nil
}

// loadFile inserts one file inside a single transaction.
func (s *SQLiteStore) loadFile(ctx context.Context, path string) (fileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileResult{}, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()
	return s.loadReader(ctx, f)
}

// loadReader inserts the rows of r. Nothing is committed unless r is read to
// the end.
func (s *SQLiteStore) loadReader(ctx context.Context, r io.Reader) (fileResult, error) {
	var fr fileResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fr, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fr, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	malformed, err := ingest.Read(r, func(rec store.NameRecord) error {
		res, err := stmt.ExecContext(ctx, rec.Name, store.NameKey(rec.Name), rec.Year, rec.Gender, rec.Count)
		if err != nil {
			return fmt.Errorf("failed to insert %s/%d/%s: %w", rec.Name, rec.Year, rec.Gender, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			fr.duplicates++
		} else {
			fr.inserted++
		}
		return nil
	})
	if err != nil {
		return fileResult{}, err
	}
	fr.malformed = malformed

	if err := tx.Commit(); err != nil {
		return fileResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return fr, nil
}
