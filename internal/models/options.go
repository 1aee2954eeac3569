package models

import (
	"math"
	"time"
)

// strikeTolerance absorbs float drift when matching strikes loaded from
// text data.
const strikeTolerance = 0.1

// OptionQuote is a single priced option contract for one trading day,
// enriched with implied volatility and Greeks.
type OptionQuote struct {
	Contract     string
	Strike       float64
	Type         OptionType
	Close        float64
	Expiry       time.Time
	TimeToExpiry float64 // years, floored at 1e-5
	IV           float64
	Delta        float64
	Gamma        float64
	Theta        float64
	Vega         float64
	ITMProb      float64
}

// DaysToExpiry converts the annualized time to expiry into trading days.
func (q OptionQuote) DaysToExpiry() float64 {
	return q.TimeToExpiry * 252
}

// Intrinsic returns the option's intrinsic value at the given spot price.
func (q OptionQuote) Intrinsic(spot float64) float64 {
	return IntrinsicValue(q.Type, q.Strike, spot)
}

// IntrinsicValue returns max(0, S-K) for calls and max(0, K-S) for puts.
func IntrinsicValue(typ OptionType, strike, spot float64) float64 {
	if typ == OptionCall {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// Chain is an ordered list of option quotes for one trading day. Order is
// whatever the producer emitted; the replayer emits (contract, strike)
// ascending so selection scans are deterministic.
type Chain []OptionQuote

// ForContract returns the sub-chain for a single contract code, preserving
// order.
func (c Chain) ForContract(contract string) Chain {
	var out Chain
	for _, q := range c {
		if q.Contract == contract {
			out = append(out, q)
		}
	}
	return out
}

// Find returns the first quote matching strike and type, if any.
func (c Chain) Find(strike float64, typ OptionType) (OptionQuote, bool) {
	for _, q := range c {
		if q.Type == typ && math.Abs(q.Strike-strike) < strikeTolerance {
			return q, true
		}
	}
	return OptionQuote{}, false
}

// FindInContract returns the first quote matching contract, strike and type.
func (c Chain) FindInContract(contract string, strike float64, typ OptionType) (OptionQuote, bool) {
	return c.ForContract(contract).Find(strike, typ)
}

// Snapshot is the per-day market view consumed by strategies: the trade
// date, the near-month futures price used as spot, and the priced call and
// put chains.
type Snapshot struct {
	Date  time.Time
	Spot  float64
	Calls Chain
	Puts  Chain
}

// Combined returns a fresh chain holding both sides. The receiver chains
// are never mutated.
func (s *Snapshot) Combined() Chain {
	out := make(Chain, 0, len(s.Calls)+len(s.Puts))
	out = append(out, s.Calls...)
	out = append(out, s.Puts...)
	return out
}
