// Package greeks computes implied volatility and Black-Scholes Greeks for
// daily option chains.
package greeks

import (
	"math"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

const (
	// minVol and maxVol bracket the implied volatility search.
	minVol = 1e-5
	maxVol = 5.0

	ivTolerance = 1e-8
	maxNewton   = 50
	maxBisect   = 200
)

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// NormPDF is the standard normal probability density function.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// BlackPrice returns the undiscounted Black (forward) price of an option:
// F*N(d1) - K*N(d2) for calls, K*N(-d2) - F*N(-d1) for puts. This is the
// model the quoted close prices are inverted against.
func BlackPrice(forward, strike, tte, sigma float64, typ models.OptionType) float64 {
	if tte <= 0 || sigma <= 0 {
		return forwardIntrinsic(forward, strike, typ)
	}
	sqrtT := math.Sqrt(tte)
	d1 := (math.Log(forward/strike) + 0.5*sigma*sigma*tte) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	if typ == models.OptionCall {
		return forward*NormCDF(d1) - strike*NormCDF(d2)
	}
	return strike*NormCDF(-d2) - forward*NormCDF(-d1)
}

// blackVega is the derivative of BlackPrice with respect to sigma.
func blackVega(forward, strike, tte, sigma float64) float64 {
	sqrtT := math.Sqrt(tte)
	d1 := (math.Log(forward/strike) + 0.5*sigma*sigma*tte) / (sigma * sqrtT)
	return forward * sqrtT * NormPDF(d1)
}

func forwardIntrinsic(forward, strike float64, typ models.OptionType) float64 {
	if typ == models.OptionCall {
		return math.Max(0, forward-strike)
	}
	return math.Max(0, strike-forward)
}

// ImpliedVolatility inverts BlackPrice for sigma given an observed price.
//
// Quotes at or below intrinsic value are arbitrage-violating and
// numerically unsolvable; they return ErrBelowIntrinsic. Quotes with no
// price or no remaining time return ErrExpiredQuote. Numerical failure
// returns ErrNoConvergence. Callers substitute IV = 0 on any error.
func ImpliedVolatility(price, forward, strike, tte float64, typ models.OptionType) (float64, error) {
	if price <= 0 || tte <= 0 {
		return 0, apperrors.ErrExpiredQuote
	}
	intrinsic := forwardIntrinsic(forward, strike, typ)
	if price <= intrinsic {
		return 0, apperrors.ErrBelowIntrinsic
	}
	if price >= BlackPrice(forward, strike, tte, maxVol, typ) {
		return 0, apperrors.ErrNoConvergence
	}

	// Rational starting guess: the Brenner-Subrahmanyam at-the-money
	// approximation, clamped into the search bracket.
	sigma := math.Sqrt(2*math.Pi/tte) * price / forward
	if sigma < minVol {
		sigma = minVol
	}
	if sigma > maxVol {
		sigma = maxVol
	}

	// Newton iteration with the bracket as a safety net.
	lo, hi := minVol, maxVol
	for i := 0; i < maxNewton; i++ {
		diff := BlackPrice(forward, strike, tte, sigma, typ) - price
		if math.Abs(diff) < ivTolerance {
			return sigma, nil
		}
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}
		vega := blackVega(forward, strike, tte, sigma)
		if vega < 1e-12 {
			break
		}
		next := sigma - diff/vega
		if next <= lo || next >= hi || math.IsNaN(next) {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-sigma) < 1e-12 {
			return next, nil
		}
		sigma = next
	}

	// Bisection fallback.
	for i := 0; i < maxBisect; i++ {
		mid := 0.5 * (lo + hi)
		diff := BlackPrice(forward, strike, tte, mid, typ) - price
		if math.Abs(diff) < ivTolerance || hi-lo < 1e-12 {
			return mid, nil
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, apperrors.ErrNoConvergence
}
