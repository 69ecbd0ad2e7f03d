// Package pipeline drives one ETL run end to end: fetch, extract,
// normalize, convert, load. Each run is a pure function of the fetched
// document and the configured rate table; no state survives a run.
package pipeline

import (
	"fmt"
	"log"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/collector"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/config"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/journal"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/recorder"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/transformer"
)

// Runner executes one full extract-transform-load pass.
type Runner struct {
	Fetcher   collector.Fetcher
	Extractor *collector.Extractor
	Sinks     []recorder.Recorder
	Journal   *journal.Journal
	URL       string
	Rates     []config.CurrencyRate
}

// Run performs the single forward pass. Fetch and locate failures abort
// before any sink is touched. A sink failure aborts the remaining
// writes but keeps earlier successful ones; the journal records the
// partial output. Every fatal path journals a failure entry before
// returning.
func (r *Runner) Run() (*model.ResultSet, error) {
	r.Journal.Append("ETL job started")

	page, err := r.Fetcher.Fetch(r.URL)
	if err != nil {
		r.Journal.Append(fmt.Sprintf("FATAL: document fetch failed: %v", err))
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	rows, err := r.Extractor.Extract(page)
	if err != nil {
		r.Journal.Append(fmt.Sprintf("FATAL: table extraction failed: %v", err))
		return nil, fmt.Errorf("extract table: %w", err)
	}
	r.Journal.Append("Data extraction from HTML webpage complete. Initiating transformation process")

	records := transformer.Convert(transformer.Normalize(rows), r.Rates)
	for _, rec := range records {
		if rec.MCUSDBillion == nil {
			log.Printf("[WARN] no parseable market cap for %q, value columns left empty", rec.Name)
		}
	}
	r.Journal.Append("Data transformation complete. Initiating loading process")

	rs := &model.ResultSet{Records: records, Currencies: currencyCodes(r.Rates)}

	for i, sink := range r.Sinks {
		if err := sink.Save(rs); err != nil {
			if i > 0 {
				r.Journal.Append(fmt.Sprintf("FATAL: %s sink write failed, earlier sink output is kept as partial output: %v", sink.Name(), err))
			} else {
				r.Journal.Append(fmt.Sprintf("FATAL: %s sink write failed: %v", sink.Name(), err))
			}
			return rs, fmt.Errorf("save result set: %w", err)
		}
		r.Journal.Append(fmt.Sprintf("Data saved to %s sink", sink.Name()))
	}

	return rs, nil
}

func currencyCodes(rates []config.CurrencyRate) []string {
	codes := make([]string, len(rates))
	for i, cr := range rates {
		codes[i] = cr.Code
	}
	return codes
}
