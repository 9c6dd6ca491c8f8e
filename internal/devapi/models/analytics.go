package models

// Strategy is one entry of GET /strategy/all.
type Strategy struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"desc"`
	Benchmark         string   `json:"benchmark"`
	DaysToRefresh     int      `json:"daysToRefresh"`
	QuantileThreshold *float64 `json:"quantile_threshold,omitempty"`
	DefaultModel      string   `json:"default_model,omitempty"`
}

// MonthlyStat is one row served by GET /monthly-stats/all. Return is a
// percentage.
type MonthlyStat struct {
	ModelID  string  `json:"model_id"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Return   float64 `json:"return"`
	IsYearly bool    `json:"isYearly"`
}
