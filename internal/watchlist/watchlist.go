package watchlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when the watchlist file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmpty is returned when the source holds no symbols.
	ErrEmpty = errors.New("no symbols")
)

// Load reads ticker symbols from a CSV file with a "Symbol" column, or from a
// SQLite database holding a watchlist table. Order is preserved.
func Load(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("watchlist file %s %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("stat watchlist: %w", err)
	}

	var (
		symbols []string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		symbols, err = loadSQLite(path)
	default:
		symbols, err = loadCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("watchlist %s: %w", path, ErrEmpty)
	}
	return symbols, nil
}

func appendSymbol(symbols []string, raw string) []string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return symbols
	}
	return append(symbols, s)
}
