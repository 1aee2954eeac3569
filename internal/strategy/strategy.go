// Package strategy provides the trading strategy interface and the wheel
// strategy implementation.
package strategy

import (
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// Context is the executor-owned view a strategy may read when deciding:
// the current open position (nil if flat) and the account balance. The
// strategy must not mutate either.
type Context struct {
	Position *models.Position
	Balance  float64
}

// Strategy is a stateful decision unit driven by the executor. OnBar runs
// on ordinary trading days, OnRollover on contract rollover days. Both
// return the signals to apply that day, in order.
type Strategy interface {
	Name() string

	// Mode returns a short label for the strategy's current operating
	// mode, recorded on positions and ledger entries.
	Mode() string

	OnBar(ctx Context, snap *models.Snapshot) []models.TradeSignal
	OnRollover(ctx Context, snap *models.Snapshot, ev models.RolloverEvent) []models.TradeSignal
}
