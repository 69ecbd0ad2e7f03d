package recorder

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
)

// CSVRecorder writes the ResultSet to a delimited flat file, overwriting
// any prior contents. Output is deterministic: identical input yields a
// byte-identical file.
type CSVRecorder struct {
	Path string
}

// NewCSVRecorder creates a CSV recorder writing to path.
func NewCSVRecorder(path string) *CSVRecorder {
	return &CSVRecorder{Path: path}
}

func (r *CSVRecorder) Name() string { return "csv" }

// Save overwrites the file with a header row followed by one row per
// record. Missing numeric values become empty cells, never zeros.
func (r *CSVRecorder) Save(rs *model.ResultSet) error {
	f, err := os.Create(r.Path)
	if err != nil {
		return &PersistenceError{Sink: r.Name(), Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(rs.Columns()); err != nil {
		f.Close()
		return &PersistenceError{Sink: r.Name(), Err: err}
	}
	for i := range rs.Records {
		row := make([]string, 0, len(rs.Currencies)+2)
		for _, v := range rs.Values(i) {
			row = append(row, formatCell(v))
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return &PersistenceError{Sink: r.Name(), Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &PersistenceError{Sink: r.Name(), Err: err}
	}
	if err := f.Close(); err != nil {
		return &PersistenceError{Sink: r.Name(), Err: err}
	}
	return nil
}

func (r *CSVRecorder) Close() error { return nil }

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}
