package market

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/a28218832/Future-Option-Trader/internal/dataset"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func futuresRow(date time.Time, contract string, open, close, settle float64) models.FuturesRow {
	return models.FuturesRow{
		TradeDate:  date,
		Contract:   contract,
		Open:       open,
		Close:      close,
		Settlement: settle,
	}
}

func putRow(date time.Time, contract string, strike, close float64) models.OptionRow {
	return models.OptionRow{
		TradeDate: date,
		Contract:  contract,
		Strike:    strike,
		Type:      models.OptionPut,
		Close:     close,
	}
}

func testDataset() *dataset.Dataset {
	futures := []models.FuturesRow{
		futuresRow(day(2), "202401", 18000, 18050, 18040),
		futuresRow(day(3), "202401", math.NaN(), 18100, 18090),
		// No usable price at all: the day must be skipped.
		futuresRow(day(4), "202401", math.NaN(), math.NaN(), math.NaN()),
		futuresRow(day(5), "202401", 18200, 18180, 18170),
		// Day without options: also skipped.
		futuresRow(day(8), "202401", 18300, 18280, 18270),
	}
	options := []models.OptionRow{
		putRow(day(2), "202401", 17800, 95),
		putRow(day(3), "202401", 17800, 80),
		putRow(day(4), "202401", 17800, 75),
		putRow(day(5), "202401", 17800, 60),
	}
	return dataset.New(futures, options)
}

func TestReplayerYieldsAscendingDates(t *testing.T) {
	r := NewReplayer(testDataset(), day(1), day(31), 0.01, zerolog.Nop())

	var dates []time.Time
	for {
		snap, ok := r.Next()
		if !ok {
			break
		}
		dates = append(dates, snap.Date)
	}

	want := []time.Time{day(2), day(3), day(5)}
	if len(dates) != len(want) {
		t.Fatalf("got %d snapshots %v, want %d", len(dates), dates, len(want))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("snapshot %d: got %v, want %v", i, dates[i], want[i])
		}
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Errorf("dates not strictly ascending: %v then %v", dates[i-1], dates[i])
		}
	}
}

func TestReplayerSpotFallback(t *testing.T) {
	r := NewReplayer(testDataset(), day(2), day(3), 0.01, zerolog.Nop())

	snap, ok := r.Next()
	if !ok {
		t.Fatal("expected a snapshot for Jan 2")
	}
	if snap.Spot != 18000 {
		t.Errorf("Jan 2 spot = %v, want open 18000", snap.Spot)
	}

	snap, ok = r.Next()
	if !ok {
		t.Fatal("expected a snapshot for Jan 3")
	}
	if snap.Spot != 18100 {
		t.Errorf("Jan 3 spot = %v, want close 18100 (open is NaN)", snap.Spot)
	}
}

func TestReplayerReset(t *testing.T) {
	r := NewReplayer(testDataset(), day(1), day(31), 0.01, zerolog.Nop())

	var first []time.Time
	for {
		snap, ok := r.Next()
		if !ok {
			break
		}
		first = append(first, snap.Date)
	}

	r.Reset()

	var second []time.Time
	for {
		snap, ok := r.Next()
		if !ok {
			break
		}
		second = append(second, snap.Date)
	}

	if len(first) != len(second) {
		t.Fatalf("replay not restartable: %d vs %d snapshots", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("snapshot %d differs after Reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestReplayerRangeBounds(t *testing.T) {
	r := NewReplayer(testDataset(), day(3), day(5), 0.01, zerolog.Nop())
	if r.Days() != 3 {
		t.Errorf("Days() = %d, want 3 candidate days in [Jan 3, Jan 5]", r.Days())
	}

	snap, ok := r.Next()
	if !ok || !snap.Date.Equal(day(3)) {
		t.Fatalf("first snapshot = %v ok=%v, want Jan 3", snap, ok)
	}
}

func TestReplayerExhausted(t *testing.T) {
	r := NewReplayer(testDataset(), day(20), day(25), 0.01, zerolog.Nop())
	if snap, ok := r.Next(); ok {
		t.Errorf("empty range yielded snapshot %v", snap)
	}
}

func TestReplayerSnapshotChains(t *testing.T) {
	r := NewReplayer(testDataset(), day(2), day(2), 0.01, zerolog.Nop())
	snap, ok := r.Next()
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if len(snap.Puts) != 1 {
		t.Fatalf("got %d puts, want 1", len(snap.Puts))
	}
	q := snap.Puts[0]
	if q.Strike != 17800 || q.Type != models.OptionPut {
		t.Errorf("unexpected quote %+v", q)
	}
	if q.IV <= 0 || q.Delta >= 0 {
		t.Errorf("put quote not priced: IV=%v delta=%v", q.IV, q.Delta)
	}
}
