package watchlist

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

func loadSQLite(path string) ([]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT Symbol FROM watchlist ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s sql.NullString
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = appendSymbol(symbols, s.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	return symbols, nil
}
