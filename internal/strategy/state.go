package strategy

import (
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// WheelState is the wheel strategy's explicit state: the operating mode
// and, in CALL mode, the virtual cost basis left behind by an assigned
// put. VirtualCost floors rescue-call strike selection and is zero in PUT
// mode.
type WheelState struct {
	Mode        models.WheelMode
	VirtualCost float64
}

// InitialWheelState returns the starting state: cash-secured PUT mode.
func InitialWheelState() WheelState {
	return WheelState{Mode: models.ModePut}
}

// FinishedITM reports whether a short leg of the given type and strike
// settled in the money against spot.
func FinishedITM(typ models.OptionType, strike, spot float64) bool {
	if typ == models.OptionPut {
		return spot < strike
	}
	return spot > strike
}

// Transition advances the wheel state at rollover given the expiring
// leg's type and strike and the settlement spot. It is a pure function so
// the state machine can be audited in isolation:
//
//	PUT  --ITM--> CALL  (virtual cost = assigned put strike)
//	CALL --ITM--> PUT   (called away or rescue exhausted; cost reset)
//	OTM in either mode keeps the current state.
func Transition(state WheelState, typ models.OptionType, strike, spot float64) WheelState {
	if !FinishedITM(typ, strike, spot) {
		return state
	}
	switch state.Mode {
	case models.ModePut:
		return WheelState{Mode: models.ModeCall, VirtualCost: strike}
	case models.ModeCall:
		return WheelState{Mode: models.ModePut, VirtualCost: 0}
	default:
		return state
	}
}
