package greeks

import (
	"math"
	"time"

	"github.com/a28218832/Future-Option-Trader/internal/calendar"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// minTTE floors the annualized time to expiry so expiry-day quotes do not
// divide by zero.
const minTTE = 1e-5

// Compute prices one trading day's option quotes against the underlying
// spot and returns the enriched call and put chains.
//
// Per-quote failures never propagate: quotes whose contract code cannot be
// parsed are dropped, and quotes whose implied volatility cannot be solved
// carry IV = 0 and all-zero Greeks.
func Compute(rows []models.OptionRow, tradeDate time.Time, spot, riskFreeRate float64) (calls, puts models.Chain) {
	date := models.DateKey(tradeDate)
	for _, row := range rows {
		if !models.DateKey(row.TradeDate).Equal(date) {
			continue
		}
		expiry, ok := calendar.ExpiryDate(row.Contract)
		if !ok {
			// Time to expiry unknown; skip the contract rather than guess.
			continue
		}
		q := priceQuote(row, date, expiry, spot, riskFreeRate)
		if q.Type == models.OptionCall {
			calls = append(calls, q)
		} else {
			puts = append(puts, q)
		}
	}
	return calls, puts
}

func priceQuote(row models.OptionRow, date, expiry time.Time, spot, rate float64) models.OptionQuote {
	days := expiry.Sub(date).Hours() / 24
	tte := math.Max(days/365.0, minTTE)

	q := models.OptionQuote{
		Contract:     row.Contract,
		Strike:       row.Strike,
		Type:         row.Type,
		Close:        row.Close,
		Expiry:       expiry,
		TimeToExpiry: tte,
	}

	forward := spot * math.Exp(rate*tte)
	iv, err := ImpliedVolatility(row.Close, forward, row.Strike, tte, row.Type)
	if err != nil {
		iv = 0
	}
	q.IV = iv

	if iv <= 0 || tte <= 0 {
		return q
	}

	sqrtT := math.Sqrt(tte)
	d1 := (math.Log(spot/row.Strike) + (rate+0.5*iv*iv)*tte) / (iv * sqrtT)
	d2 := d1 - iv*sqrtT

	nd1 := NormCDF(d1)
	nd2 := NormCDF(d2)
	pdfD1 := NormPDF(d1)
	discount := math.Exp(-rate * tte)

	if row.Type == models.OptionCall {
		q.Delta = nd1
		q.ITMProb = nd2
	} else {
		q.Delta = nd1 - 1
		q.ITMProb = 1 - nd2
	}
	q.Gamma = pdfD1 / (spot * iv * sqrtT)
	q.Vega = spot * sqrtT * pdfD1

	thetaCommon := -(spot * iv * pdfD1) / (2 * sqrtT)
	if row.Type == models.OptionCall {
		q.Theta = thetaCommon - rate*row.Strike*discount*nd2
	} else {
		q.Theta = thetaCommon + rate*row.Strike*discount*(1-nd2)
	}
	return q
}
