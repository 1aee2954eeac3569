package greeks

import (
	"math"
	"testing"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

func TestNormCDF(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.0, 0.8413447},
		{-1.0, 0.1586553},
		{1.96, 0.9750021},
	}
	for _, tt := range tests {
		if got := NormCDF(tt.x); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("NormCDF(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	tests := []struct {
		forward float64
		strike  float64
		tte     float64
		sigma   float64
		typ     models.OptionType
	}{
		{18000, 18000, 30.0 / 365, 0.15, models.OptionCall},
		{18000, 17500, 30.0 / 365, 0.22, models.OptionPut},
		{18000, 19000, 90.0 / 365, 0.35, models.OptionCall},
		{18000, 16000, 7.0 / 365, 0.45, models.OptionPut},
		{18000, 18200, 1.0 / 365, 0.10, models.OptionCall},
		{18000, 17000, 365.0 / 365, 0.60, models.OptionPut},
	}

	for _, tt := range tests {
		price := BlackPrice(tt.forward, tt.strike, tt.tte, tt.sigma, tt.typ)
		got, err := ImpliedVolatility(price, tt.forward, tt.strike, tt.tte, tt.typ)
		if err != nil {
			t.Errorf("ImpliedVolatility(%+v) error: %v", tt, err)
			continue
		}
		if math.Abs(got-tt.sigma) > 1e-4 {
			t.Errorf("round trip %+v: got sigma %v, want %v", tt, got, tt.sigma)
		}
	}
}

func TestImpliedVolatilityBelowIntrinsic(t *testing.T) {
	// Deep ITM call quoted at intrinsic: unsolvable, must not panic.
	_, err := ImpliedVolatility(1000, 18000, 17000, 30.0/365, models.OptionCall)
	if !apperrors.Is(err, apperrors.ErrBelowIntrinsic) {
		t.Errorf("got %v, want ErrBelowIntrinsic", err)
	}

	_, err = ImpliedVolatility(500, 18000, 17000, 30.0/365, models.OptionCall)
	if !apperrors.Is(err, apperrors.ErrBelowIntrinsic) {
		t.Errorf("below-intrinsic quote: got %v, want ErrBelowIntrinsic", err)
	}
}

func TestImpliedVolatilityExpiredQuote(t *testing.T) {
	if _, err := ImpliedVolatility(0, 18000, 18000, 30.0/365, models.OptionCall); !apperrors.Is(err, apperrors.ErrExpiredQuote) {
		t.Errorf("zero price: got %v, want ErrExpiredQuote", err)
	}
	if _, err := ImpliedVolatility(100, 18000, 18000, 0, models.OptionCall); !apperrors.Is(err, apperrors.ErrExpiredQuote) {
		t.Errorf("zero tte: got %v, want ErrExpiredQuote", err)
	}
}

func TestBlackPricePutCallParity(t *testing.T) {
	forward, strike, tte, sigma := 18000.0, 17800.0, 45.0/365, 0.2
	call := BlackPrice(forward, strike, tte, sigma, models.OptionCall)
	put := BlackPrice(forward, strike, tte, sigma, models.OptionPut)

	// Undiscounted parity: C - P = F - K.
	if math.Abs((call-put)-(forward-strike)) > 1e-8 {
		t.Errorf("parity violated: C-P = %v, F-K = %v", call-put, forward-strike)
	}
}
