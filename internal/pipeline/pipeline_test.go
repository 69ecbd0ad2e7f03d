package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/collector"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/config"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/journal"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/recorder"
)

// captureRecorder records Save calls so tests can assert which sinks
// were written.
type captureRecorder struct {
	name  string
	saves []*model.ResultSet
	err   error
}

func (c *captureRecorder) Name() string { return c.name }

func (c *captureRecorder) Save(rs *model.ResultSet) error {
	if c.err != nil {
		return &recorder.PersistenceError{Sink: c.name, Err: c.err}
	}
	c.saves = append(c.saves, rs)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

func testRates() []config.CurrencyRate {
	return []config.CurrencyRate{
		{Code: "GBP", Rate: 0.8},
		{Code: "EUR", Rate: 0.93},
	}
}

func bankPage(anchorID string, rows []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<html><body><h2 id=%q>By market cap</h2>", anchorID))
	b.WriteString("<table><tr><th>Rank</th><th>Bank name</th><th>Market cap</th></tr>")
	b.WriteString(strings.Join(rows, ""))
	b.WriteString("</table></body></html>")
	return b.String()
}

func rankedRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("<tr><td>%d</td><td>Bank %d</td><td>%d.5</td></tr>", i+1, i+1, 500-i)
	}
	return rows
}

func newRunner(t *testing.T, page string, sinks ...recorder.Recorder) (*Runner, string) {
	t.Helper()
	journalPath := filepath.Join(t.TempDir(), "code_log.txt")
	return &Runner{
		Fetcher:   &collector.MockFetcher{HTML: page},
		Extractor: collector.NewExtractor("By_market_capitalization", 1, 2, 10),
		Sinks:     sinks,
		Journal:   journal.New(journalPath),
		URL:       "https://example.org/banks",
		Rates:     testRates(),
	}, journalPath
}

func readJournal(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	return string(data)
}

func TestRun_TwelveRowTableWithCitation(t *testing.T) {
	rows := rankedRows(12)
	rows[2] = "<tr><td>3</td><td>Bank 3</td><td>410.2[5]</td></tr>"
	sink := &captureRecorder{name: "capture"}
	runner, _ := newRunner(t, bankPage("By_market_capitalization", rows), sink)

	rs, err := runner.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs.Records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(rs.Records))
	}
	rec := rs.Records[2]
	if rec.MCUSDBillion == nil || *rec.MCUSDBillion != 410.2 {
		t.Errorf("record 3: expected base 410.2, got %v", rec.MCUSDBillion)
	}
	if gbp := rec.Derived["GBP"]; gbp == nil || *gbp != 328.16 {
		t.Errorf("record 3: expected GBP 328.16, got %v", gbp)
	}
	if len(sink.saves) != 1 {
		t.Errorf("expected exactly one save, got %d", len(sink.saves))
	}
}

func TestRun_DerivedColumnsFromRateTable(t *testing.T) {
	rows := []string{"<tr><td>1</td><td>Only Bank</td><td>100.0</td></tr>"}
	runner, _ := newRunner(t, bankPage("By_market_capitalization", rows), recorder.NewNoopRecorder())

	rs, err := runner.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := rs.Records[0]
	if gbp := rec.Derived["GBP"]; gbp == nil || *gbp != 80.0 {
		t.Errorf("expected GBP 80.0, got %v", gbp)
	}
	if eur := rec.Derived["EUR"]; eur == nil || *eur != 93.0 {
		t.Errorf("expected EUR 93.0, got %v", eur)
	}
}

func TestRun_MissingHeadingAbortsBeforeSinks(t *testing.T) {
	csv := &captureRecorder{name: "csv"}
	db := &captureRecorder{name: "sqlite"}
	runner, journalPath := newRunner(t, bankPage("Wrong_anchor", rankedRows(5)), csv, db)

	_, err := runner.Run()
	var locErr *collector.LocatorError
	if !errors.As(err, &locErr) {
		t.Fatalf("expected LocatorError, got %v", err)
	}
	if len(csv.saves) != 0 || len(db.saves) != 0 {
		t.Error("sinks were written despite a fatal locator failure")
	}
	if !strings.Contains(readJournal(t, journalPath), "FATAL") {
		t.Error("expected a fatal journal entry")
	}
}

func TestRun_EmptyValueCellDegradesOneRow(t *testing.T) {
	rows := rankedRows(10)
	rows[6] = "<tr><td>7</td><td>Bank 7</td><td></td></tr>"
	sink := &captureRecorder{name: "capture"}
	runner, _ := newRunner(t, bankPage("By_market_capitalization", rows), sink)

	rs, err := runner.Run()
	if err != nil {
		t.Fatalf("expected the run to complete, got %v", err)
	}
	if len(rs.Records) != 10 {
		t.Fatalf("expected all 10 records, got %d", len(rs.Records))
	}
	bad := rs.Records[6]
	if bad.MCUSDBillion != nil {
		t.Errorf("expected nil base for the empty cell, got %v", *bad.MCUSDBillion)
	}
	for code, v := range bad.Derived {
		if v != nil {
			t.Errorf("%s: expected nil derived value, got %v", code, *v)
		}
	}
	for i, rec := range rs.Records {
		if i == 6 {
			continue
		}
		if rec.MCUSDBillion == nil {
			t.Errorf("record %d should have parsed, got nil", i)
		}
	}
	if len(sink.saves) != 1 {
		t.Errorf("expected one save despite the degraded row, got %d", len(sink.saves))
	}
}

func TestRun_FetchFailureAbortsBeforeSinks(t *testing.T) {
	sink := &captureRecorder{name: "capture"}
	journalPath := filepath.Join(t.TempDir(), "code_log.txt")
	runner := &Runner{
		Fetcher:   &collector.MockFetcher{Err: &collector.FetchError{URL: "https://example.org", StatusCode: 503}},
		Extractor: collector.NewExtractor("By_market_capitalization", 1, 2, 10),
		Sinks:     []recorder.Recorder{sink},
		Journal:   journal.New(journalPath),
		URL:       "https://example.org",
		Rates:     testRates(),
	}

	_, err := runner.Run()
	var fetchErr *collector.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if len(sink.saves) != 0 {
		t.Error("sink was written despite a fetch failure")
	}
	if !strings.Contains(readJournal(t, journalPath), "FATAL") {
		t.Error("expected a fatal journal entry")
	}
}

func TestRun_SinkFailureKeepsEarlierWrites(t *testing.T) {
	good := &captureRecorder{name: "csv"}
	bad := &captureRecorder{name: "sqlite", err: errors.New("disk full")}
	runner, journalPath := newRunner(t, bankPage("By_market_capitalization", rankedRows(3)), good, bad)

	_, err := runner.Run()
	var perr *recorder.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if len(good.saves) != 1 {
		t.Error("earlier successful write should be kept")
	}
	entries := readJournal(t, journalPath)
	if !strings.Contains(entries, "partial output") {
		t.Errorf("expected the journal to flag partial output, got:\n%s", entries)
	}
}
