package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/maloquacious/babynames/internal/store"
	"github.com/maloquacious/babynames/internal/store/sqlite"
	"github.com/spf13/cobra"
)

const ssaDataURL = "https://catalog.data.gov/dataset/baby-names-from-social-security-card-applications-national-data"

func (a *app) runDBCreate(cmd *cobra.Command, args []string) error {
	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		a.log.Info("db create: schema version %s ready in %s", sqlite.SchemaVersion, a.cfg.DBPath)
		return a.emit(cmd.OutOrStdout(), map[string]string{
			"db":            a.cfg.DBPath,
			"schemaVersion": sqlite.SchemaVersion,
		}, func(w io.Writer) {
			fmt.Fprintf(w, "Database ready: %s (schema %s)\n", a.cfg.DBPath, sqlite.SchemaVersion)
		})
	})
}

// runDBVerify inspects the database without creating anything.
func (a *app) runDBVerify(cmd *cobra.Command, args []string) error {
	state := store.StateMissing
	var schemaVersion string

	exists, err := store.CheckExists(a.cfg.DBPath)
	if err != nil {
		return err
	}
	if exists {
		s := sqlite.New(a.cfg.DBPath, sqlite.SchemaVersion, a.log)
		if err := s.Open(); err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if state, err = s.CheckState(ctx); err != nil {
			return err
		}
		if state != store.StateUninitialized {
			if schemaVersion, err = s.GetSchemaVersion(ctx); err != nil {
				return err
			}
		}
	}

	err = a.emit(cmd.OutOrStdout(), map[string]string{
		"db":            a.cfg.DBPath,
		"state":         state.String(),
		"schemaVersion": schemaVersion,
	}, func(w io.Writer) {
		fmt.Fprintf(w, "Database: %s\nState:    %s\nSchema:   %s\n", a.cfg.DBPath, state, schemaVersion)
	})
	if err != nil {
		return err
	}
	if state != store.StateReady {
		return fmt.Errorf("database %s is %s", a.cfg.DBPath, state)
	}
	return nil
}

func (a *app) runLoad(cmd *cobra.Command, args []string) error {
	dir := a.cfg.DataDir
	if len(args) == 1 {
		dir = args[0]
	}

	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		result, err := s.LoadFromDirectory(ctx, dir)
		if err != nil {
			return fmt.Errorf("load %s: %w", dir, err)
		}
		return a.emit(cmd.OutOrStdout(), result, func(w io.Writer) {
			fmt.Fprintf(w, "Loaded %s record(s) from %d file(s)\n", humanize.Comma(int64(result.Inserted)), result.Files)
			fmt.Fprintf(w, "Skipped %s duplicate(s) and %s malformed row(s)\n",
				humanize.Comma(int64(result.Duplicates)), humanize.Comma(int64(result.Malformed)))
			for _, path := range result.FailedFiles {
				fmt.Fprintf(w, "Failed: %s\n", path)
			}
		})
	})
}

func (a *app) runSearch(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		records, err := s.SearchByName(ctx, name)
		if err != nil {
			return err
		}
		return a.emit(cmd.OutOrStdout(), records, func(w io.Writer) {
			if len(records) == 0 {
				fmt.Fprintln(w, "Name not found.")
				return
			}
			fmt.Fprintf(w, "Results for '%s':\n", name)
			for _, rec := range records {
				fmt.Fprintf(w, "  %d - %s: %s\n", rec.Year, rec.Gender, humanize.Comma(int64(rec.Count)))
			}
		})
	})
}

func (a *app) runAdd(cmd *cobra.Command, args []string) error {
	rec, err := parseRecord(args)
	if err != nil {
		return err
	}
	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		added, err := s.Create(ctx, rec)
		if err != nil {
			return err
		}
		return a.emit(cmd.OutOrStdout(), map[string]any{"record": rec, "added": added}, func(w io.Writer) {
			if added {
				fmt.Fprintln(w, "Record added!")
			} else {
				fmt.Fprintln(w, "Record already exists.")
			}
		})
	})
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	rec, err := parseRecord(args)
	if err != nil {
		return err
	}
	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		updated, err := s.Update(ctx, rec.Name, rec.Year, rec.Gender, rec.Count)
		if err != nil {
			return err
		}
		return a.emit(cmd.OutOrStdout(), map[string]any{"record": rec, "updated": updated}, func(w io.Writer) {
			if updated {
				fmt.Fprintln(w, "Record updated!")
			} else {
				fmt.Fprintln(w, "Record not found.")
			}
		})
	})
}

func (a *app) runDelete(cmd *cobra.Command, args []string) error {
	name, year, gender, err := parseKey(args)
	if err != nil {
		return err
	}
	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		deleted, err := s.Delete(ctx, name, year, gender)
		if err != nil {
			return err
		}
		return a.emit(cmd.OutOrStdout(), map[string]any{"name": name, "year": year, "gender": gender, "deleted": deleted}, func(w io.Writer) {
			if deleted {
				fmt.Fprintln(w, "Record deleted!")
			} else {
				fmt.Fprintln(w, "Record not found.")
			}
		})
	})
}

func (a *app) runStats(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	return a.withStore(cmd, func(ctx context.Context, s *sqlite.SQLiteStore) error {
		stats, err := s.StatsForName(ctx, name)
		if err != nil {
			return err
		}
		out := struct {
			Name  string           `json:"name"`
			Found bool             `json:"found"`
			Stats *store.NameStats `json:"stats,omitempty"`
		}{Name: name, Found: stats != nil, Stats: stats}
		return a.emit(cmd.OutOrStdout(), out, func(w io.Writer) {
			if stats == nil {
				fmt.Fprintln(w, "Name not found.")
				return
			}
			fmt.Fprintf(w, "Statistics for '%s':\n", name)
			fmt.Fprintf(w, "  First year recorded: %d\n", stats.FirstYear)
			fmt.Fprintf(w, "  Most popular year: %d\n", stats.MostPopularYear)
			fmt.Fprintf(w, "  Top %d years by popularity: %s\n", len(stats.TopYears), joinYears(stats.TopYears))
			fmt.Fprintf(w, "  Total recorded: %s\n", humanize.Comma(int64(stats.TotalCount)))
		})
	})
}

func (a *app) runSource(cmd *cobra.Command, args []string) error {
	return a.emit(cmd.OutOrStdout(), map[string]string{"url": ssaDataURL, "dir": a.cfg.DataDir}, func(w io.Writer) {
		fmt.Fprintf(w, "Please download the data from: %s\n", ssaDataURL)
		fmt.Fprintf(w, "Extract it to the '%s' folder\n", a.cfg.DataDir)
	})
}

// parseRecord reads NAME YEAR GENDER COUNT.
func parseRecord(args []string) (store.NameRecord, error) {
	name, year, gender, err := parseKey(args[:3])
	if err != nil {
		return store.NameRecord{}, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(args[3]))
	if err != nil {
		return store.NameRecord{}, fmt.Errorf("count must be a number: %q", args[3])
	}
	return store.NameRecord{Name: name, Year: year, Gender: gender, Count: count}, nil
}

// parseKey reads NAME YEAR GENDER. Gender is upper-cased.
func parseKey(args []string) (string, int, string, error) {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return "", 0, "", fmt.Errorf("name must not be empty")
	}
	year, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return "", 0, "", fmt.Errorf("year must be a number: %q", args[1])
	}
	gender := strings.ToUpper(strings.TrimSpace(args[2]))
	return name, year, gender, nil
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
