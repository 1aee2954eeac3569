// Package models provides domain models for the backtesting application.
package models

import (
	"math"
	"time"
)

// ContractMultiplier is the index point value of one contract lot.
const ContractMultiplier = 50.0

// OptionType represents the side of an option contract.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// LegSide represents the direction of a leg.
type LegSide string

const (
	LegSideBuy  LegSide = "BUY"
	LegSideSell LegSide = "SELL"
)

// SignalAction represents the action requested by a trade signal.
type SignalAction string

const (
	SignalOpen  SignalAction = "OPEN"
	SignalClose SignalAction = "CLOSE"
)

// WheelMode represents the wheel strategy operating mode.
type WheelMode string

const (
	ModePut  WheelMode = "PUT"
	ModeCall WheelMode = "CALL"
)

// FuturesRow is a single daily futures record. Missing prices are NaN.
type FuturesRow struct {
	TradeDate  time.Time
	Contract   string
	ExpiryCode string
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Settlement float64
}

// OptionRow is a single daily option quote record as produced by the data
// layer. Only regular-session rows are eligible; the dataset loader owns
// that filter.
type OptionRow struct {
	TradeDate time.Time
	Contract  string
	Strike    float64
	Type      OptionType
	Close     float64
	Session   string
}

// RolloverEvent describes a contract rollover on a given date.
type RolloverEvent struct {
	IsRollover    bool
	CloseContract string
	OpenContract  string
}

// DateKey normalizes a timestamp to a midnight-UTC calendar date so it can
// be used as a map key.
func DateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidPrice reports whether p is a usable positive price.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && p > 0
}
