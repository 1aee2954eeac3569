package strategy

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/logging"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// CallFallbackPolicy selects the behavior when CALL mode finds no strike
// at or above the virtual cost. The two historical revisions of the wheel
// diverged here, so both are selectable by name.
type CallFallbackPolicy string

const (
	// FallbackDefensive sells the highest available strike anyway.
	FallbackDefensive CallFallbackPolicy = "defensive"
	// FallbackAbstain opens nothing for the period.
	FallbackAbstain CallFallbackPolicy = "abstain"
)

// Delta band for PUT-mode strike selection.
const (
	putDeltaMin = 0.10
	putDeltaMax = 0.30

	// CALL-mode candidates below this |delta| carry too little premium.
	minCallDelta = 0.05

	// Gamma-risk exit also requires |delta| above this.
	gammaRiskDelta = 0.4
)

// WheelParams holds the wheel strategy's tunables.
type WheelParams struct {
	Leverage      float64
	TargetDelta   float64
	StopLossDelta float64
	ProfitTakePct float64
	GammaRiskDays float64
	CallFallback  CallFallbackPolicy
}

// DefaultWheelParams returns the standard parameter set.
func DefaultWheelParams() WheelParams {
	return WheelParams{
		Leverage:      3.0,
		TargetDelta:   0.20,
		StopLossDelta: 0.60,
		ProfitTakePct: 0.80,
		GammaRiskDays: 5,
		CallFallback:  FallbackAbstain,
	}
}

// Validate checks the parameters. Configuration errors fail fast here,
// before any backtest runs.
func (p WheelParams) Validate() error {
	if p.Leverage <= 0 {
		return apperrors.NewValidationError("leverage", p.Leverage, "must be positive")
	}
	if p.TargetDelta <= 0 || p.TargetDelta >= 1 {
		return apperrors.NewValidationError("target_delta", p.TargetDelta, "must be in (0, 1)")
	}
	if p.StopLossDelta <= 0 || p.StopLossDelta > 1 {
		return apperrors.NewValidationError("stop_loss_delta", p.StopLossDelta, "must be in (0, 1]")
	}
	if p.ProfitTakePct <= 0 || p.ProfitTakePct >= 1 {
		return apperrors.NewValidationError("profit_take_pct", p.ProfitTakePct, "must be in (0, 1)")
	}
	if p.GammaRiskDays < 0 {
		return apperrors.NewValidationError("gamma_risk_days", p.GammaRiskDays, "must be non-negative")
	}
	switch p.CallFallback {
	case FallbackDefensive, FallbackAbstain:
	default:
		return apperrors.NewValidationError("call_fallback", p.CallFallback, "must be 'defensive' or 'abstain'")
	}
	return nil
}

// WheelStrategy sells cash-secured puts and, after assignment, covered
// "rescue" calls against the assigned cost basis, cycling between the two
// modes at contract rollover.
type WheelStrategy struct {
	params WheelParams
	state  WheelState
	logger zerolog.Logger
}

// NewWheelStrategy constructs a wheel strategy, failing fast on invalid
// parameters.
func NewWheelStrategy(params WheelParams, logger zerolog.Logger) (*WheelStrategy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &WheelStrategy{
		params: params,
		state:  InitialWheelState(),
		logger: logging.WithStrategy(logger, "wheel"),
	}, nil
}

// Name implements Strategy.
func (s *WheelStrategy) Name() string {
	return "wheel"
}

// Mode implements Strategy.
func (s *WheelStrategy) Mode() string {
	return string(s.state.Mode)
}

// State returns the current wheel state.
func (s *WheelStrategy) State() WheelState {
	return s.state
}

// OnBar monitors the open position for exits: profit take, delta stop
// loss, then gamma risk, in that priority. The first trigger wins. A
// missing quote for the held leg is a transient data gap and produces no
// signal.
func (s *WheelStrategy) OnBar(ctx Context, snap *models.Snapshot) []models.TradeSignal {
	pos := ctx.Position
	if pos == nil || len(pos.Legs) == 0 {
		return nil
	}

	held := pos.Legs[0]
	chain := snap.Puts
	if held.Type == models.OptionCall {
		chain = snap.Calls
	}

	quote, ok := chain.FindInContract(pos.Contract, held.Strike, held.Type)
	if !ok {
		return nil
	}

	price := quote.Close
	delta := math.Abs(quote.Delta)
	days := quote.DaysToExpiry()

	closeSignal := func(reason string) []models.TradeSignal {
		return []models.TradeSignal{{
			Action:   models.SignalClose,
			Contract: pos.Contract,
			Legs:     []models.Leg{{Side: held.Side, Strike: held.Strike, Type: held.Type}},
			Reason:   reason,
			Quantity: pos.Quantity,
		}}
	}

	if price <= held.EntryPrice*(1-s.params.ProfitTakePct) {
		return closeSignal("TakeProfit")
	}
	if delta > s.params.StopLossDelta {
		return closeSignal("StopLoss_Delta")
	}
	if days < s.params.GammaRiskDays && delta > gammaRiskDelta {
		s.logger.Debug().
			Str("date", snap.Date.Format("2006-01-02")).
			Float64("delta", delta).
			Float64("days_to_expiry", days).
			Msg("Gamma risk exit triggered")
		return closeSignal("Gamma_Risk")
	}
	return nil
}

// OnRollover settles the expiring position, advances the wheel state by
// whether the short leg finished in the money, and selects the next
// period's leg for the opening contract.
func (s *WheelStrategy) OnRollover(ctx Context, snap *models.Snapshot, ev models.RolloverEvent) []models.TradeSignal {
	var signals []models.TradeSignal

	if pos := ctx.Position; pos != nil && len(pos.Legs) > 0 {
		held := pos.Legs[0]
		signals = append(signals, models.TradeSignal{
			Action:   models.SignalClose,
			Contract: pos.Contract,
			Legs:     []models.Leg{{Side: held.Side, Strike: held.Strike, Type: held.Type}},
			Reason:   "Rollover_Expiry",
			Quantity: pos.Quantity,
		})

		prev := s.state
		s.state = Transition(s.state, held.Type, held.Strike, snap.Spot)
		if s.state.Mode != prev.Mode {
			logging.LogModeSwitch(s.logger, snap.Date, string(prev.Mode), string(s.state.Mode), s.state.VirtualCost)
		}
	}

	leg, ok := s.selectLeg(snap, ev.OpenContract)
	if !ok {
		return signals
	}

	qty := s.positionSize(ctx.Balance, snap.Spot)
	signals = append(signals, models.TradeSignal{
		Action:   models.SignalOpen,
		Contract: ev.OpenContract,
		Legs:     []models.Leg{leg},
		Reason:   fmt.Sprintf("Wheel_%s", s.state.Mode),
		Quantity: qty,
	})
	return signals
}

// positionSize computes lots from balance and leverage against the
// notional of one contract.
func (s *WheelStrategy) positionSize(balance, spot float64) int {
	if spot <= 0 {
		return 1
	}
	raw := balance * s.params.Leverage / (spot * models.ContractMultiplier)
	if raw < 1 {
		return 1
	}
	return int(raw)
}

func (s *WheelStrategy) selectLeg(snap *models.Snapshot, contract string) (models.Leg, bool) {
	switch s.state.Mode {
	case models.ModePut:
		return s.selectPut(snap.Puts.ForContract(contract))
	case models.ModeCall:
		return s.selectCall(snap.Calls.ForContract(contract))
	default:
		return models.Leg{}, false
	}
}

// selectPut picks, among puts with |delta| in [0.10, 0.30], the strike
// whose |delta| is closest to the target. If none qualifies the period is
// skipped.
func (s *WheelStrategy) selectPut(puts models.Chain) (models.Leg, bool) {
	best := -1
	bestDiff := math.Inf(1)
	for i, q := range puts {
		d := math.Abs(q.Delta)
		if d < putDeltaMin || d > putDeltaMax {
			continue
		}
		diff := math.Abs(d - s.params.TargetDelta)
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best < 0 {
		return models.Leg{}, false
	}
	return models.Leg{Side: models.LegSideSell, Strike: puts[best].Strike, Type: models.OptionPut}, true
}

// selectCall picks the lowest strike at or above the virtual cost, which
// keeps the call covered while maximizing premium. A candidate with too
// little delta is rejected. When nothing clears the cost floor the
// configured fallback policy decides.
func (s *WheelStrategy) selectCall(calls models.Chain) (models.Leg, bool) {
	best := -1
	for i, q := range calls {
		if q.Strike < s.state.VirtualCost {
			continue
		}
		if best < 0 || q.Strike < calls[best].Strike {
			best = i
		}
	}

	if best >= 0 {
		q := calls[best]
		if math.Abs(q.Delta) < minCallDelta {
			s.logger.Debug().
				Float64("strike", q.Strike).
				Float64("delta", q.Delta).
				Msg("Rescue call rejected, premium too thin")
			return models.Leg{}, false
		}
		return models.Leg{Side: models.LegSideSell, Strike: q.Strike, Type: models.OptionCall}, true
	}

	if s.params.CallFallback == FallbackDefensive && len(calls) > 0 {
		highest := 0
		for i, q := range calls {
			if q.Strike > calls[highest].Strike {
				highest = i
			}
		}
		return models.Leg{Side: models.LegSideSell, Strike: calls[highest].Strike, Type: models.OptionCall}, true
	}
	return models.Leg{}, false
}
