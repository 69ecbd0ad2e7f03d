package transformer

import (
	"math"

	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/config"
	"github.com/francissibal/Worlds-Largest-Banks-ETL/internal/model"
)

// Round2 rounds to two decimal places, half away from zero. This is the
// pinned rounding rule for all derived currency values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Convert derives one value per configured currency from each record's
// USD base value: round2(base * rate), in configuration order. A nil
// base propagates as nil derived values. Pure function; the inputs are
// not mutated.
func Convert(records []model.Record, rates []config.CurrencyRate) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		conv := model.Record{
			Name:         rec.Name,
			MCUSDBillion: rec.MCUSDBillion,
			Derived:      make(map[string]*float64, len(rates)),
		}
		for _, cr := range rates {
			if rec.MCUSDBillion == nil {
				conv.Derived[cr.Code] = nil
				continue
			}
			v := Round2(*rec.MCUSDBillion * cr.Rate)
			conv.Derived[cr.Code] = &v
		}
		out[i] = conv
	}
	return out
}
