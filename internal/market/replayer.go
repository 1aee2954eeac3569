// Package market replays historical daily market data as a restartable,
// finite sequence of snapshots.
package market

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/a28218832/Future-Option-Trader/internal/dataset"
	"github.com/a28218832/Future-Option-Trader/internal/greeks"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// Replayer walks the trading days of a closed date range in ascending
// order, producing one Snapshot per day that has usable data. Days without
// a futures price, without option quotes, or whose Greeks computation
// yields nothing are skipped; a single bad day never aborts the replay.
//
// The traversal is read-only and restartable via Reset.
type Replayer struct {
	data         *dataset.Dataset
	riskFreeRate float64
	logger       zerolog.Logger

	dates []time.Time
	idx   int
}

// NewReplayer creates a replayer over the dataset's trading days inside
// [start, end].
func NewReplayer(data *dataset.Dataset, start, end time.Time, riskFreeRate float64, logger zerolog.Logger) *Replayer {
	return &Replayer{
		data:         data,
		riskFreeRate: riskFreeRate,
		logger:       logger,
		dates:        data.TradeDates(start, end),
	}
}

// Days returns the number of candidate trading days in range.
func (r *Replayer) Days() int {
	return len(r.dates)
}

// Reset rewinds the replayer to the first trading day.
func (r *Replayer) Reset() {
	r.idx = 0
}

// Next returns the next daily snapshot, or ok=false when the range is
// exhausted. Snapshots are yielded in strictly ascending date order.
func (r *Replayer) Next() (*models.Snapshot, bool) {
	for r.idx < len(r.dates) {
		date := r.dates[r.idx]
		r.idx++

		snap, ok := r.buildSnapshot(date)
		if !ok {
			continue
		}
		return snap, true
	}
	return nil, false
}

func (r *Replayer) buildSnapshot(date time.Time) (*models.Snapshot, bool) {
	futures := r.data.FuturesOn(date)
	if len(futures) == 0 {
		return nil, false
	}

	// Rows are sorted by contract code ascending, so the first row is the
	// near-month contract.
	spot, ok := spotPrice(futures[0])
	if !ok {
		r.logger.Debug().
			Str("date", date.Format("2006-01-02")).
			Str("contract", futures[0].Contract).
			Msg("No valid underlying price, skipping day")
		return nil, false
	}

	options := r.data.OptionsOn(date)
	if len(options) == 0 {
		return nil, false
	}

	calls, puts := greeks.Compute(options, date, spot, r.riskFreeRate)
	if len(calls) == 0 && len(puts) == 0 {
		r.logger.Warn().
			Str("date", date.Format("2006-01-02")).
			Int("quotes", len(options)).
			Msg("Greeks computation produced empty chains, skipping day")
		return nil, false
	}

	return &models.Snapshot{
		Date:  date,
		Spot:  spot,
		Calls: calls,
		Puts:  puts,
	}, true
}

// spotPrice picks the underlying price from a near-month futures row,
// trying open, close and settlement in that order and accepting the first
// strictly positive value.
func spotPrice(row models.FuturesRow) (float64, bool) {
	for _, p := range []float64{row.Open, row.Close, row.Settlement} {
		if models.ValidPrice(p) {
			return p, true
		}
	}
	return 0, false
}
