package calendar

import (
	"sort"
	"time"

	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// contractMonthLayout formats a rollover month as YYYYMM.
const contractMonthLayout = "200601"

// RolloverMap holds the precomputed rollover schedule, keyed by
// midnight-UTC trade date.
type RolloverMap map[time.Time]models.RolloverEvent

// BuildRolloverMap precomputes rollover events for every trading date in
// [start, end]. A date is a rollover date iff it is a Wednesday whose
// day-of-month falls in [15, 21] (the 3rd-Wednesday settlement
// convention). The closing contract is that month as YYYYMM; the opening
// contract is the next calendar month.
func BuildRolloverMap(tradeDates []time.Time, start, end time.Time) RolloverMap {
	startKey := models.DateKey(start)
	endKey := models.DateKey(end)

	m := make(RolloverMap)
	for _, d := range tradeDates {
		key := models.DateKey(d)
		if key.Before(startKey) || key.After(endKey) {
			continue
		}
		if key.Weekday() != time.Wednesday || key.Day() < 15 || key.Day() > 21 {
			continue
		}
		m[key] = models.RolloverEvent{
			IsRollover:    true,
			CloseContract: key.Format(contractMonthLayout),
			OpenContract:  key.AddDate(0, 1, 0).Format(contractMonthLayout),
		}
	}
	return m
}

// RolloverInfo looks up the rollover event for a date. Non-rollover dates
// return a zero event with IsRollover = false.
func (m RolloverMap) RolloverInfo(date time.Time) models.RolloverEvent {
	if ev, ok := m[models.DateKey(date)]; ok {
		return ev
	}
	return models.RolloverEvent{}
}

// Dates returns the rollover dates in ascending order.
func (m RolloverMap) Dates() []time.Time {
	out := make([]time.Time, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
