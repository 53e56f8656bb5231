package sources

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
)

// csvTable is a header-indexed view over one CSV export. Cells are looked
// up by trimmed header name so column order never matters.
type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func readCSVTable(path string) (*csvTable, error) {
	records, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &csvTable{columns: map[string]int{}}, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	return &csvTable{columns: columns, rows: records[1:]}, nil
}

// readCSVRecords reads every record of a CSV file. Ragged rows and bare
// quotes inside free-text columns are tolerated.
func readCSVRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

func (t *csvTable) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// logFailure records a source that could not be opened or parsed. Readers
// continue with an empty table afterwards.
func (r *Reader) logFailure(ctx context.Context, key Key, path string, err error) {
	if r.logg == nil {
		return
	}
	ctx = r.logg.WithFields(ctx, map[string]any{
		"source": key.String(),
		"path":   path,
	})
	r.logg.Error(ctx, "source unreadable, continuing with empty table", err)
}
