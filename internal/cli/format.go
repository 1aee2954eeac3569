package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/a28218832/Future-Option-Trader/internal/backtest"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

var (
	gainColor = color.New(color.FgGreen)
	lossColor = color.New(color.FgRed)
)

// FormatMoney formats an amount with thousands separators.
func FormatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.0f", amount)
	var groups []string
	for len(str) > 3 {
		groups = append([]string{str[len(str)-3:]}, groups...)
		str = str[:len(str)-3]
	}
	groups = append([]string{str}, groups...)

	result := strings.Join(groups, ",")
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPnL formats a signed P&L amount, colored by sign.
func FormatPnL(pnl float64) string {
	if pnl >= 0 {
		return gainColor.Sprintf("+%s", FormatMoney(pnl))
	}
	return lossColor.Sprint(FormatMoney(pnl))
}

func printLedger(w io.Writer, ledger []models.LedgerEntry) {
	if len(ledger) == 0 {
		fmt.Fprintln(w, "No completed trades.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY\tEXIT\tMODE\tREASON\tQTY\tPNL\tROR\tBALANCE\tDETAIL")
	for _, e := range ledger {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%.1f%%\t%s\t%s\n",
			e.EntryDate.Format("2006-01-02"),
			e.ExitDate.Format("2006-01-02"),
			e.Mode,
			e.Reason,
			e.Quantity,
			FormatPnL(e.PnL),
			e.ReturnOnRisk*100,
			FormatMoney(e.BalanceAfter),
			e.TradeDetail,
		)
	}
	tw.Flush()
}

func printMetrics(w io.Writer, result *backtest.Result) {
	m := result.Metrics
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Trades:        %d (%d won / %d lost)\n", m.TotalTrades, m.WinningTrades, m.LosingTrades)
	fmt.Fprintf(w, "Win rate:      %.1f%%\n", m.WinRate)
	fmt.Fprintf(w, "Total return:  %.2f%%\n", m.TotalReturn)
	fmt.Fprintf(w, "Max drawdown:  %.2f%%\n", m.MaxDrawdown)
	if m.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit factor: %.2f\n", m.ProfitFactor)
	}
	fmt.Fprintf(w, "Balance:       %s -> %s (%s)\n",
		FormatMoney(result.InitialBalance),
		FormatMoney(result.FinalBalance),
		FormatPnL(result.FinalBalance-result.InitialBalance),
	)
}
