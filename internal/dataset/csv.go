package dataset

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "github.com/a28218832/Future-Option-Trader/internal/errors"
	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// RegularSession is the only option trading session eligible for the
// backtest. The loader owns this filter; the core assumes pre-filtered
// rows.
const RegularSession = "regular"

const csvDateLayout = "2006-01-02"

type futuresCSVRow struct {
	TradeDate  string `csv:"trade_date"`
	Contract   string `csv:"contract"`
	ExpiryCode string `csv:"expiry_code"`
	Open       string `csv:"open"`
	High       string `csv:"high"`
	Low        string `csv:"low"`
	Close      string `csv:"close"`
	Settlement string `csv:"settlement"`
}

type optionsCSVRow struct {
	TradeDate string `csv:"trade_date"`
	Contract  string `csv:"contract"`
	Strike    string `csv:"strike"`
	Side      string `csv:"option_side"`
	Close     string `csv:"close"`
	Session   string `csv:"session"`
}

// LoadFutures reads and cleans a futures CSV: dates normalized, spread
// contracts (codes containing '/') excluded, numeric columns cleaned of
// thousands separators with '-' treated as missing.
func LoadFutures(path string) ([]models.FuturesRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError("futures", path, err)
	}
	defer f.Close()

	var raw []*futuresCSVRow
	if err := gocsv.UnmarshalFile(f, &raw); err != nil {
		return nil, apperrors.NewDataError("futures", "parsing csv", err)
	}

	var rows []models.FuturesRow
	for _, r := range raw {
		if strings.Contains(r.Contract, "/") || strings.Contains(r.ExpiryCode, "/") {
			continue // spread order
		}
		date, err := time.Parse(csvDateLayout, strings.TrimSpace(r.TradeDate))
		if err != nil {
			continue
		}
		rows = append(rows, models.FuturesRow{
			TradeDate:  models.DateKey(date),
			Contract:   strings.TrimSpace(r.Contract),
			ExpiryCode: strings.TrimSpace(r.ExpiryCode),
			Open:       cleanNumber(r.Open),
			High:       cleanNumber(r.High),
			Low:        cleanNumber(r.Low),
			Close:      cleanNumber(r.Close),
			Settlement: cleanNumber(r.Settlement),
		})
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDataError("futures", "no usable rows", apperrors.ErrNoData)
	}
	return rows, nil
}

// LoadOptions reads and cleans an options CSV, keeping only
// regular-session rows.
func LoadOptions(path string) ([]models.OptionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataError("options", path, err)
	}
	defer f.Close()

	var raw []*optionsCSVRow
	if err := gocsv.UnmarshalFile(f, &raw); err != nil {
		return nil, apperrors.NewDataError("options", "parsing csv", err)
	}

	var rows []models.OptionRow
	for _, r := range raw {
		session := strings.ToLower(strings.TrimSpace(r.Session))
		if session != "" && session != RegularSession {
			continue
		}
		date, err := time.Parse(csvDateLayout, strings.TrimSpace(r.TradeDate))
		if err != nil {
			continue
		}
		typ, ok := parseOptionSide(r.Side)
		if !ok {
			continue
		}
		strike := cleanNumber(r.Strike)
		if math.IsNaN(strike) {
			continue
		}
		rows = append(rows, models.OptionRow{
			TradeDate: models.DateKey(date),
			Contract:  strings.TrimSpace(r.Contract),
			Strike:    strike,
			Type:      typ,
			Close:     cleanNumber(r.Close),
			Session:   RegularSession,
		})
	}
	if len(rows) == 0 {
		return nil, apperrors.NewDataError("options", "no usable rows", apperrors.ErrNoData)
	}
	return rows, nil
}

// Load reads both tables and assembles the Dataset.
func Load(futuresPath, optionsPath string) (*Dataset, error) {
	futures, err := LoadFutures(futuresPath)
	if err != nil {
		return nil, err
	}
	options, err := LoadOptions(optionsPath)
	if err != nil {
		return nil, err
	}
	return New(futures, options), nil
}

func parseOptionSide(s string) (models.OptionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return models.OptionCall, true
	case "put", "p":
		return models.OptionPut, true
	default:
		return "", false
	}
}

// cleanNumber converts a raw numeric cell to a float. Thousands separators
// are stripped; '-' and empty cells become NaN rather than an error so a
// single bad cell cannot abort a load.
func cleanNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
