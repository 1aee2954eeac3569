// Package dataset holds the pre-loaded market tables consumed by the
// backtest core. A Dataset is constructed once, passed by reference and
// never mutated during replay.
package dataset

import (
	"sort"
	"time"

	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// Dataset is the immutable market-data context for one backtest: daily
// futures rows and regular-session option rows, indexed by trade date.
type Dataset struct {
	futures []models.FuturesRow
	options []models.OptionRow

	futuresByDate map[time.Time][]models.FuturesRow
	optionsByDate map[time.Time][]models.OptionRow
	tradeDates    []time.Time
}

// New builds a Dataset from cleaned futures and option rows. Rows are
// copied and sorted so that replay order is deterministic regardless of
// input order: futures by (date, contract), options by (date, contract,
// strike).
func New(futures []models.FuturesRow, options []models.OptionRow) *Dataset {
	ds := &Dataset{
		futures: append([]models.FuturesRow(nil), futures...),
		options: append([]models.OptionRow(nil), options...),
	}

	sort.SliceStable(ds.futures, func(i, j int) bool {
		a, b := ds.futures[i], ds.futures[j]
		if !a.TradeDate.Equal(b.TradeDate) {
			return a.TradeDate.Before(b.TradeDate)
		}
		return a.Contract < b.Contract
	})
	sort.SliceStable(ds.options, func(i, j int) bool {
		a, b := ds.options[i], ds.options[j]
		if !a.TradeDate.Equal(b.TradeDate) {
			return a.TradeDate.Before(b.TradeDate)
		}
		if a.Contract != b.Contract {
			return a.Contract < b.Contract
		}
		return a.Strike < b.Strike
	})

	ds.futuresByDate = make(map[time.Time][]models.FuturesRow)
	for _, row := range ds.futures {
		key := models.DateKey(row.TradeDate)
		ds.futuresByDate[key] = append(ds.futuresByDate[key], row)
	}
	ds.optionsByDate = make(map[time.Time][]models.OptionRow)
	for _, row := range ds.options {
		key := models.DateKey(row.TradeDate)
		ds.optionsByDate[key] = append(ds.optionsByDate[key], row)
	}

	ds.tradeDates = make([]time.Time, 0, len(ds.futuresByDate))
	for d := range ds.futuresByDate {
		ds.tradeDates = append(ds.tradeDates, d)
	}
	sort.Slice(ds.tradeDates, func(i, j int) bool { return ds.tradeDates[i].Before(ds.tradeDates[j]) })

	return ds
}

// TradeDates returns the sorted trading dates with futures data inside
// [start, end].
func (ds *Dataset) TradeDates(start, end time.Time) []time.Time {
	startKey := models.DateKey(start)
	endKey := models.DateKey(end)
	var out []time.Time
	for _, d := range ds.tradeDates {
		if d.Before(startKey) || d.After(endKey) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FuturesOn returns the futures rows for a trade date, sorted by contract
// code ascending. The returned slice must not be modified.
func (ds *Dataset) FuturesOn(date time.Time) []models.FuturesRow {
	return ds.futuresByDate[models.DateKey(date)]
}

// OptionsOn returns the option rows for a trade date, sorted by contract
// then strike. The returned slice must not be modified.
func (ds *Dataset) OptionsOn(date time.Time) []models.OptionRow {
	return ds.optionsByDate[models.DateKey(date)]
}
