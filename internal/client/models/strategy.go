package models

import (
	"github.com/shopspring/decimal"
)

// Strategy is one entry of GET /strategy/all.
type Strategy struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"desc"`
	Benchmark         string           `json:"benchmark"`
	DaysToRefresh     int              `json:"daysToRefresh"`
	QuantileThreshold *decimal.Decimal `json:"quantile_threshold"`
	DefaultModel      string           `json:"default_model,omitempty"`
}

// RollingReturn is one rolling window, e.g. Period "3 Year".
type RollingReturn struct {
	Period string
	Return decimal.Decimal
}

type AnnualReturn struct {
	Year  string
	Value decimal.Decimal
}

// GrowthPoint is one sample of the portfolio growth series.
type GrowthPoint struct {
	Label string
	Value decimal.Decimal
}

// Metric is one row of the backtest statistics table. Values are kept as
// the API formats them ("9.42%", "0.73", "N/A").
type Metric struct {
	Name      string
	Portfolio string
	Benchmark string
}

// StrategyDetail is the shaped payload of GET /strategy/{id}.
type StrategyDetail struct {
	ID             string
	Name           string
	Benchmark      string
	RollingReturns []RollingReturn
	AnnualReturns  []AnnualReturn
	Growth         []GrowthPoint
	Stats          []Metric
	Tickers        []string
}

// MonthlyStat is one row of GET /monthly-stats/all.
type MonthlyStat struct {
	ModelID  string          `json:"model_id"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Return   decimal.Decimal `json:"return"`
	IsYearly bool            `json:"isYearly"`
}
