// Package calendar derives option expiry dates from contract codes and
// precomputes the contract rollover schedule for a backtest range.
package calendar

import (
	"strconv"
	"strings"
	"time"
)

// ExpiryDate parses a contract code of the form YYYYMM[W|F][N] and returns
// the contract's expiration date.
//
// Without a suffix the code is a monthly contract expiring on the 3rd
// Wednesday of the month. A suffix of W or F plus a single digit selects
// the Nth Wednesday or Friday (weekly contracts). Malformed codes return
// ok=false; callers must treat that as "time to expiry unknown" and skip
// the contract.
func ExpiryDate(code string) (time.Time, bool) {
	s := strings.TrimSpace(code)
	// Codes loaded through float columns can carry a ".0" tail.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if len(s) < 6 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(s[4:6])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}

	if len(s) > 6 {
		if len(s) != 8 {
			return time.Time{}, false
		}
		count, err := strconv.Atoi(s[7:8])
		if err != nil || count < 1 {
			return time.Time{}, false
		}
		switch s[6] {
		case 'W', 'w':
			return NthWeekday(year, time.Month(month), time.Wednesday, count), true
		case 'F', 'f':
			return NthWeekday(year, time.Month(month), time.Friday, count), true
		default:
			return time.Time{}, false
		}
	}

	return NthWeekday(year, time.Month(month), time.Wednesday, 3), true
}

// NthWeekday returns the Nth occurrence of a weekday counting forward from
// the 1st of the month. Counting continues past month end when n exceeds
// the occurrences in the month, matching the contract-code convention used
// by the exchange data.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	seen := 0
	for {
		if d.Weekday() == weekday {
			seen++
			if seen == n {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}
