// Package transformer holds the pure computation steps of the pipeline:
// value normalization and currency conversion. No I/O happens here.
package transformer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
)

// citationPattern matches bracketed citation markers like "[5]" or
// "[note 3]" that the source appends to figures.
var citationPattern = regexp.MustCompile(`\[[^\]]*\]`)

// Normalize coerces each raw market-cap cell into a numeric base value.
// Citation markers are stripped first; a cell that still fails to parse
// (or was absent) yields a nil MCUSDBillion. That is a missing data
// point, not an error: the row survives and the run continues.
func Normalize(rows []model.RawRow) []model.Record {
	records := make([]model.Record, len(rows))
	for i, row := range rows {
		records[i] = model.Record{Name: row.Name}
		cleaned := strings.TrimSpace(citationPattern.ReplaceAllString(row.RawValue, ""))
		if cleaned == "" {
			continue
		}
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			records[i].MCUSDBillion = &v
		}
	}
	return records
}
