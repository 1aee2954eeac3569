package greeks

import (
	"math"
	"testing"
	"time"

	"github.com/a28218832/Future-Option-Trader/internal/models"
)

func optionRow(date time.Time, contract string, strike, close float64, typ models.OptionType) models.OptionRow {
	return models.OptionRow{
		TradeDate: date,
		Contract:  contract,
		Strike:    strike,
		Type:      typ,
		Close:     close,
	}
}

func TestComputeSplitsChains(t *testing.T) {
	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	rows := []models.OptionRow{
		optionRow(date, "202401", 18000, 250, models.OptionCall),
		optionRow(date, "202401", 18000, 230, models.OptionPut),
		optionRow(date, "202401", 17500, 90, models.OptionPut),
	}

	calls, puts := Compute(rows, date, 18000, 0.01)
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if len(puts) != 2 {
		t.Fatalf("got %d puts, want 2", len(puts))
	}
	for _, q := range append(calls, puts...) {
		if q.IV <= 0 {
			t.Errorf("quote %s %.0f: IV = %v, want > 0", q.Type, q.Strike, q.IV)
		}
		if q.TimeToExpiry <= 0 {
			t.Errorf("quote %s %.0f: tte = %v, want > 0", q.Type, q.Strike, q.TimeToExpiry)
		}
	}
}

func TestComputeFiltersOtherDates(t *testing.T) {
	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	other := date.AddDate(0, 0, 1)
	rows := []models.OptionRow{
		optionRow(other, "202401", 18000, 250, models.OptionCall),
	}

	calls, puts := Compute(rows, date, 18000, 0.01)
	if len(calls) != 0 || len(puts) != 0 {
		t.Fatalf("got %d calls and %d puts, want none", len(calls), len(puts))
	}
}

func TestComputeSkipsUnparseableContracts(t *testing.T) {
	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	rows := []models.OptionRow{
		optionRow(date, "JUNK", 18000, 250, models.OptionCall),
		optionRow(date, "202401", 18000, 250, models.OptionCall),
	}

	calls, _ := Compute(rows, date, 18000, 0.01)
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1 (unparseable contract dropped)", len(calls))
	}
	if calls[0].Contract != "202401" {
		t.Errorf("kept contract %q, want 202401", calls[0].Contract)
	}
}

func TestComputeUnsolvableQuoteZeroGreeks(t *testing.T) {
	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	// Deep ITM call quoted below intrinsic.
	rows := []models.OptionRow{
		optionRow(date, "202401", 16000, 500, models.OptionCall),
	}

	calls, _ := Compute(rows, date, 18000, 0.01)
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	q := calls[0]
	if q.IV != 0 {
		t.Errorf("IV = %v, want 0", q.IV)
	}
	if q.Delta != 0 || q.Gamma != 0 || q.Theta != 0 || q.Vega != 0 || q.ITMProb != 0 {
		t.Errorf("Greeks not zeroed: %+v", q)
	}
	if q.Close != 500 {
		t.Errorf("Close = %v, quote fields must survive", q.Close)
	}
}

func TestComputeGreekSigns(t *testing.T) {
	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	rows := []models.OptionRow{
		optionRow(date, "202401", 18000, 250, models.OptionCall),
		optionRow(date, "202401", 18000, 230, models.OptionPut),
	}

	calls, puts := Compute(rows, date, 18000, 0.01)
	call, put := calls[0], puts[0]

	if call.Delta <= 0 || call.Delta >= 1 {
		t.Errorf("call delta = %v, want in (0,1)", call.Delta)
	}
	if put.Delta >= 0 || put.Delta <= -1 {
		t.Errorf("put delta = %v, want in (-1,0)", put.Delta)
	}
	if call.Gamma <= 0 || put.Gamma <= 0 {
		t.Errorf("gamma must be positive: call %v put %v", call.Gamma, put.Gamma)
	}
	if call.Vega <= 0 || put.Vega <= 0 {
		t.Errorf("vega must be positive: call %v put %v", call.Vega, put.Vega)
	}
	if call.Theta >= 0 {
		t.Errorf("ATM call theta = %v, want negative", call.Theta)
	}
	if call.ITMProb <= 0 || call.ITMProb >= 1 {
		t.Errorf("call ITM probability = %v, want in (0,1)", call.ITMProb)
	}
	if put.ITMProb <= 0 || put.ITMProb >= 1 {
		t.Errorf("put ITM probability = %v, want in (0,1)", put.ITMProb)
	}
}

func TestOptionQuoteDaysToExpiry(t *testing.T) {
	q := models.OptionQuote{TimeToExpiry: 10.0 / 252}
	if got := q.DaysToExpiry(); math.Abs(got-10) > 1e-9 {
		t.Errorf("DaysToExpiry() = %v, want 10", got)
	}
}
