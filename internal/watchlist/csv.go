package watchlist

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// row maps the Symbol column; any other columns are ignored.
type row struct {
	Symbol string `csv:"Symbol"`
}

func loadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	var rows []*row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse watchlist csv: %w", err)
	}

	symbols := make([]string, 0, len(rows))
	for _, r := range rows {
		symbols = appendSymbol(symbols, r.Symbol)
	}
	return symbols, nil
}
