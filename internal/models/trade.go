package models

import (
	"fmt"
	"time"
)

// Leg describes one option contract's role in a trade, not yet priced.
type Leg struct {
	Side   LegSide
	Strike float64
	Type   OptionType
}

func (l Leg) String() string {
	return fmt.Sprintf("%s %s @ %.0f", l.Side, l.Type, l.Strike)
}

// TradeSignal is a strategy's request to open or close a position. Reason
// is a diagnostic tag for logging and the ledger, never control flow.
type TradeSignal struct {
	Action   SignalAction
	Contract string
	Legs     []Leg
	Reason   string
	Quantity int
}

// PositionLeg is a leg with its fill price frozen at entry.
type PositionLeg struct {
	Side       LegSide
	Type       OptionType
	Strike     float64
	EntryPrice float64
}

// Position is the single open position owned by the executor. TotalPremium
// is the signed cash collected (sold) or paid (bought) at entry, already
// scaled by lot size and quantity.
type Position struct {
	Contract     string
	Legs         []PositionLeg
	Quantity     int
	TotalPremium float64
	EntryDate    time.Time
	EntrySpot    float64
	Mode         string
}

// LedgerEntry is one completed round trip. The ledger is append-only and
// is the backtest's final output.
type LedgerEntry struct {
	EntryDate    time.Time
	ExitDate     time.Time
	Mode         string
	Reason       string
	Quantity     int
	PnL          float64
	ReturnOnRisk float64
	TradeDetail  string
	BalanceAfter float64
	EntrySpot    float64
	ExitSpot     float64
}
