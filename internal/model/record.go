package model

import "fmt"

// RawRow is one table row as extracted from the source document, before
// any normalization. RawValue keeps the cell text verbatim, including
// citation markers; an absent cell leaves it empty.
type RawRow struct {
	Name     string
	RawValue string
}

// Record is one bank after normalization and currency conversion.
// A nil MCUSDBillion marks a market cap that could not be parsed from
// the source; it stays nil through every derived column, never a zero.
type Record struct {
	Name         string
	MCUSDBillion *float64
	Derived      map[string]*float64 // keyed by currency code
}

// ResultSet is the ordered output of one run. Currencies fixes the
// derived-column order for every sink.
type ResultSet struct {
	Records    []Record
	Currencies []string
}

// Columns returns the output column names in sink order: name, base
// value, then one column per configured currency.
func (rs *ResultSet) Columns() []string {
	cols := make([]string, 0, len(rs.Currencies)+2)
	cols = append(cols, "Name", "MC_USD_Billion")
	for _, code := range rs.Currencies {
		cols = append(cols, fmt.Sprintf("MC_%s_Billion", code))
	}
	return cols
}

// Values returns record i's fields in Columns order. Missing numeric
// fields come back as untyped nil so sinks map them to NULL/empty.
func (rs *ResultSet) Values(i int) []any {
	rec := rs.Records[i]
	vals := make([]any, 0, len(rs.Currencies)+2)
	vals = append(vals, rec.Name, numeric(rec.MCUSDBillion))
	for _, code := range rs.Currencies {
		vals = append(vals, numeric(rec.Derived[code]))
	}
	return vals
}

func numeric(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
