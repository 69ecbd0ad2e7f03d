package recorder

import (
	"fmt"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
)

// Recorder persists one run's ResultSet to a sink. Save fully replaces
// the sink's prior contents; there is no append or merge for the
// dataset.
type Recorder interface {
	Save(rs *model.ResultSet) error
	Name() string
	Close() error
}

// Querier runs a read query against a sink for verification.
type Querier interface {
	Query(queryText string) (*QueryResult, error)
}

// QueryResult is a query's output rendered for display: column names
// plus rows of stringified cells (NULL for missing values).
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// PersistenceError reports a failed write to a sink. Fatal for that
// write; earlier successful writes are kept.
type PersistenceError struct {
	Sink string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s sink: %v", e.Sink, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
