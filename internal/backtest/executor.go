// Package backtest drives the simulation loop: it replays daily market
// snapshots, asks the strategy for signals and turns them into priced
// fills against a simulated account.
package backtest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/a28218832/Future-Option-Trader/internal/calendar"
	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/logging"
	"github.com/a28218832/Future-Option-Trader/internal/market"
	"github.com/a28218832/Future-Option-Trader/internal/models"
	"github.com/a28218832/Future-Option-Trader/internal/strategy"
)

// Observer receives per-day diagnostic events. It is optional and has no
// effect on the simulation.
type Observer interface {
	PositionOpened(date time.Time, pos *models.Position)
	PositionClosed(date time.Time, entry models.LedgerEntry)
}

// ExecutorConfig configures a backtest run.
type ExecutorConfig struct {
	Replayer       *market.Replayer
	Rollovers      calendar.RolloverMap
	Strategy       strategy.Strategy
	InitialBalance float64
	Logger         zerolog.Logger
	Observer       Observer // optional
}

// Executor owns the account state for one backtest: the balance, the
// single open position and the append-only ledger of completed round
// trips.
type Executor struct {
	replayer  *market.Replayer
	rollovers calendar.RolloverMap
	strategy  strategy.Strategy
	logger    zerolog.Logger
	observer  Observer

	initialBalance float64
	balance        float64
	position       *models.Position
	ledger         []models.LedgerEntry
}

// Result is the outcome of a completed backtest run.
type Result struct {
	Ledger         []models.LedgerEntry
	InitialBalance float64
	FinalBalance   float64
	Metrics        Metrics
}

// NewExecutor validates the configuration and creates an executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if cfg.Replayer == nil {
		return nil, apperrors.NewValidationError("replayer", nil, "is required")
	}
	if cfg.Strategy == nil {
		return nil, apperrors.NewValidationError("strategy", nil, "is required")
	}
	if cfg.InitialBalance <= 0 {
		return nil, apperrors.NewValidationError("initial_balance", cfg.InitialBalance, "must be positive")
	}
	return &Executor{
		replayer:       cfg.Replayer,
		rollovers:      cfg.Rollovers,
		strategy:       cfg.Strategy,
		logger:         cfg.Logger,
		observer:       cfg.Observer,
		initialBalance: cfg.InitialBalance,
		balance:        cfg.InitialBalance,
	}, nil
}

// Balance returns the current account balance.
func (e *Executor) Balance() float64 {
	return e.balance
}

// Position returns the open position, or nil when flat.
func (e *Executor) Position() *models.Position {
	return e.position
}

// Ledger returns the completed round trips so far.
func (e *Executor) Ledger() []models.LedgerEntry {
	return e.ledger
}

// Run walks every snapshot in the replay range, dispatching to the
// strategy and applying its signals in order. Cancelling the context
// stops the walk at the next day boundary. Recoverable per-day data
// problems never abort the run.
func (e *Executor) Run(ctx context.Context) (*Result, error) {
	e.replayer.Reset()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap, ok := e.replayer.Next()
		if !ok {
			break
		}

		sctx := strategy.Context{Position: e.position, Balance: e.balance}
		ev := e.rollovers.RolloverInfo(snap.Date)

		var signals []models.TradeSignal
		if ev.IsRollover {
			e.logger.Debug().
				Str("date", snap.Date.Format("2006-01-02")).
				Str("close", ev.CloseContract).
				Str("open", ev.OpenContract).
				Msg("Rollover day")
			signals = e.strategy.OnRollover(sctx, snap, ev)
		} else {
			signals = e.strategy.OnBar(sctx, snap)
		}

		for _, sig := range signals {
			e.applySignal(sig, snap)
		}
	}

	return &Result{
		Ledger:         e.ledger,
		InitialBalance: e.initialBalance,
		FinalBalance:   e.balance,
		Metrics:        ComputeMetrics(e.ledger, e.initialBalance),
	}, nil
}

// applySignal prices a single signal against the day's chains. Every
// lookup failure degrades: a missing leg is skipped, an unmatchable
// signal is dropped, and closing legs without a live quote settle at
// intrinsic value. Nothing here can corrupt prior ledger entries.
func (e *Executor) applySignal(sig models.TradeSignal, snap *models.Snapshot) {
	combined := snap.Combined()
	prices := combined.ForContract(sig.Contract)
	if len(prices) == 0 {
		e.logger.Warn().
			Str("date", snap.Date.Format("2006-01-02")).
			Str("contract", sig.Contract).
			Str("action", string(sig.Action)).
			Msg("No quotes for contract, signal dropped")
		return
	}

	switch sig.Action {
	case models.SignalOpen:
		e.openPosition(sig, prices, snap)
	case models.SignalClose:
		e.closePosition(sig, combined, prices, snap)
	}
}

func (e *Executor) openPosition(sig models.TradeSignal, prices models.Chain, snap *models.Snapshot) {
	if e.position != nil {
		e.logger.Warn().
			Str("date", snap.Date.Format("2006-01-02")).
			Str("contract", sig.Contract).
			Msg("OPEN while position already held, signal ignored")
		return
	}

	netCashFlow := 0.0
	var legs []models.PositionLeg
	for _, leg := range sig.Legs {
		quote, ok := prices.Find(leg.Strike, leg.Type)
		if !ok || !models.ValidPrice(quote.Close) {
			e.logger.Warn().
				Str("date", snap.Date.Format("2006-01-02")).
				Str("leg", leg.String()).
				Msg("No quote for leg, skipped")
			continue
		}
		direction := -1.0
		if leg.Side == models.LegSideSell {
			direction = 1.0
		}
		netCashFlow += quote.Close * direction
		legs = append(legs, models.PositionLeg{
			Side:       leg.Side,
			Type:       leg.Type,
			Strike:     leg.Strike,
			EntryPrice: quote.Close,
		})
	}
	if len(legs) == 0 {
		return
	}

	totalPremium := netCashFlow * models.ContractMultiplier * float64(sig.Quantity)
	e.balance += totalPremium
	e.position = &models.Position{
		Contract:     sig.Contract,
		Legs:         legs,
		Quantity:     sig.Quantity,
		TotalPremium: totalPremium,
		EntryDate:    snap.Date,
		EntrySpot:    snap.Spot,
		Mode:         e.strategy.Mode(),
	}

	logging.LogFill(e.logger, snap.Date, string(models.SignalOpen), sig.Contract, sig.Reason, sig.Quantity, totalPremium)
	if e.observer != nil {
		e.observer.PositionOpened(snap.Date, e.position)
	}
}

func (e *Executor) closePosition(sig models.TradeSignal, combined, prices models.Chain, snap *models.Snapshot) {
	pos := e.position
	if pos == nil {
		e.logger.Warn().
			Str("date", snap.Date.Format("2006-01-02")).
			Str("contract", sig.Contract).
			Msg("CLOSE with no open position, ignored")
		return
	}

	// On rollover days the signal may name the opening contract while the
	// held position is in the closing one; settle against the held
	// contract's quotes.
	if pos.Contract != sig.Contract {
		prices = combined.ForContract(pos.Contract)
	}

	closeCashFlow := 0.0
	details := make([]string, 0, len(pos.Legs))
	for _, leg := range pos.Legs {
		exitPrice := 0.0
		if quote, ok := prices.Find(leg.Strike, leg.Type); ok && models.ValidPrice(quote.Close) {
			exitPrice = quote.Close
		} else {
			// Cash settlement at expiry: no live quote, use intrinsic.
			exitPrice = models.IntrinsicValue(leg.Type, leg.Strike, snap.Spot)
		}
		direction := 1.0
		if leg.Side == models.LegSideSell {
			direction = -1.0
		}
		closeCashFlow += exitPrice * direction
		details = append(details, fmt.Sprintf("%s %.0f (%.1f->%.1f)", leg.Type, leg.Strike, leg.EntryPrice, exitPrice))
	}

	closeAmount := closeCashFlow * models.ContractMultiplier * float64(pos.Quantity)
	pnl := pos.TotalPremium + closeAmount
	e.balance += closeAmount

	roi := 0.0
	if pos.TotalPremium != 0 {
		roi = pnl / math.Abs(pos.TotalPremium)
	}

	entry := models.LedgerEntry{
		EntryDate:    pos.EntryDate,
		ExitDate:     snap.Date,
		Mode:         pos.Mode,
		Reason:       sig.Reason,
		Quantity:     pos.Quantity,
		PnL:          pnl,
		ReturnOnRisk: roi,
		TradeDetail:  strings.Join(details, " | "),
		BalanceAfter: e.balance,
		EntrySpot:    pos.EntrySpot,
		ExitSpot:     snap.Spot,
	}
	e.ledger = append(e.ledger, entry)
	e.position = nil

	closeLogger := logging.WithContract(e.logger, pos.Contract)
	closeLogger.Info().
		Str("date", snap.Date.Format("2006-01-02")).
		Str("reason", sig.Reason).
		Float64("pnl", pnl).
		Float64("balance", e.balance).
		Str("detail", entry.TradeDetail).
		Msg("Position closed")
	if e.observer != nil {
		e.observer.PositionClosed(snap.Date, entry)
	}
}
