package backtest

import (
	"fmt"
	"math"
	"strings"

	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// Metrics summarizes a ledger's performance.
type Metrics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	TotalReturn   float64 // percent of initial balance
	WinRate       float64 // percent
	MaxDrawdown   float64 // percent, from the balance-after series
	ProfitFactor  float64
	AvgWin        float64
	AvgLoss       float64
}

// ComputeMetrics derives performance metrics from the completed ledger.
func ComputeMetrics(ledger []models.LedgerEntry, initialBalance float64) Metrics {
	m := Metrics{TotalTrades: len(ledger)}
	if len(ledger) == 0 || initialBalance <= 0 {
		return m
	}

	var totalWins, totalLosses float64
	peak := initialBalance
	for _, entry := range ledger {
		if entry.PnL > 0 {
			m.WinningTrades++
			totalWins += entry.PnL
		} else {
			m.LosingTrades++
			totalLosses += -entry.PnL
		}
		if entry.BalanceAfter > peak {
			peak = entry.BalanceAfter
		}
		if peak > 0 {
			drawdown := (peak - entry.BalanceAfter) / peak
			if drawdown > m.MaxDrawdown {
				m.MaxDrawdown = drawdown
			}
		}
	}
	m.MaxDrawdown *= 100

	final := ledger[len(ledger)-1].BalanceAfter
	m.TotalReturn = (final - initialBalance) / initialBalance * 100
	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100

	if m.WinningTrades > 0 {
		m.AvgWin = totalWins / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = -totalLosses / float64(m.LosingTrades)
	}
	if totalLosses > 0 {
		m.ProfitFactor = totalWins / totalLosses
	}
	return m
}

// EquityCurveASCII renders the balance-after series as a terminal chart.
func EquityCurveASCII(ledger []models.LedgerEntry, initialBalance float64, width, height int) string {
	if len(ledger) == 0 || width <= 0 || height <= 0 {
		return "No trades to display"
	}

	equity := make([]float64, 0, len(ledger)+1)
	equity = append(equity, initialBalance)
	for _, entry := range ledger {
		equity = append(equity, entry.BalanceAfter)
	}

	minEq, maxEq := equity[0], equity[0]
	for _, v := range equity {
		minEq = math.Min(minEq, v)
		maxEq = math.Max(maxEq, v)
	}
	span := maxEq - minEq
	if span == 0 {
		span = 1
	}
	minEq -= span * 0.05
	maxEq += span * 0.05
	span = maxEq - minEq

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	step := len(equity) / width
	if step == 0 {
		step = 1
	}
	for x := 0; x < width && x*step < len(equity); x++ {
		y := int((equity[x*step] - minEq) / span * float64(height-1))
		if y >= 0 && y < height {
			grid[height-1-y][x] = '█'
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Equity Curve (%.0f - %.0f)\n", minEq, maxEq))
	sb.WriteString(strings.Repeat("─", width+2) + "\n")
	for _, row := range grid {
		sb.WriteRune('│')
		sb.WriteString(string(row))
		sb.WriteRune('│')
		sb.WriteRune('\n')
	}
	sb.WriteString(strings.Repeat("─", width+2) + "\n")
	return sb.String()
}
