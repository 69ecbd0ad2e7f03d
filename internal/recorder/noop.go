package recorder

import "github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"

// NoopRecorder discards the ResultSet. Used where a sink is not wanted,
// e.g. dry runs and tests.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Name() string { return "noop" }

func (n *NoopRecorder) Save(_ *model.ResultSet) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
