// Package ingest reads baby name data files.
//
// A data file is plain text with a header line followed by rows of
// name,year,gender,count. Quoting and embedded commas are not supported.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/maloquacious/babynames/internal/store"
)

// Extensions lists the file suffixes treated as data files.
var Extensions = []string{".txt", ".csv"}

// FindFiles returns the data files in dir in lexical order.
func FindFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, store.ErrNoDataDir)
		}
		return nil, fmt.Errorf("failed to stat data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, store.ErrNoDataDir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !isDataFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// os.Stat follows symlinks; dangling links are skipped.
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, store.ErrNoDataFiles)
	}
	sort.Strings(files)
	return files, nil
}

func isDataFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// ParseLine converts a data row into a record. It reports false when the
// line does not have exactly four fields or year/count are not integers.
func ParseLine(line string) (store.NameRecord, bool) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 {
		return store.NameRecord{}, false
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return store.NameRecord{}, false
	}
	count, err := strconv.Atoi(fields[3])
	if err != nil {
		return store.NameRecord{}, false
	}

	return store.NameRecord{
		Name:   fields[0],
		Year:   year,
		Gender: fields[2],
		Count:  count,
	}, true
}

// MaxLineLength is the longest row Read accepts. Longer rows are malformed.
const MaxLineLength = 64 * 1024

// Read parses r, discarding the first line, and calls fn for every valid row.
// Blank lines are ignored. It returns the number of malformed rows skipped.
// An error from fn or from r stops the read.
func Read(r io.Reader, fn func(store.NameRecord) error) (int, error) {
	br := bufio.NewReader(r)
	if _, _, err := readLine(br); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read data: %w", err)
	}

	var malformed int
	for {
		line, tooLong, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return malformed, fmt.Errorf("failed to read data: %w", err)
		}
		if tooLong {
			malformed++
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := ParseLine(line)
		if !ok {
			malformed++
			continue
		}
		if err := fn(rec); err != nil {
			return malformed, err
		}
	}
	return malformed, nil
}

// readLine returns the next line without its terminator. A line longer than
// MaxLineLength is drained without being kept and reported as tooLong.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	var tooLong bool
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > MaxLineLength {
				tooLong, buf = true, nil
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}
