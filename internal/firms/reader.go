package firms

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSV parses a header row followed by records. Blank lines are ignored,
// a leading UTF-8 BOM is dropped, and records may be shorter or longer than
// the header. When a header name repeats, the first column wins.
func ReadCSV(r io.Reader) ([]string, []Row, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "firms: read csv")
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(records[0]))
	colIdx := make(map[string]int, len(header))
	for i, col := range records[0] {
		header[i] = normalizeHeader(col)
		if _, dup := colIdx[header[i]]; !dup {
			colIdx[header[i]] = i
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(colIdx))
		for col, i := range colIdx {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "firms: open input")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}
