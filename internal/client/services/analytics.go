package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/dmitrijs2005/pvisualizer/internal/client/api"
	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/dmitrijs2005/pvisualizer/internal/client/session"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/shopspring/decimal"
)

// DefaultMonthlyStatsLimit is the page size the dashboard asks for.
const DefaultMonthlyStatsLimit = 100

type AnalyticsClient interface {
	Strategies(ctx context.Context, token string) ([]models.Strategy, error)
	Strategy(ctx context.Context, token, id string) (any, error)
	MonthlyStats(ctx context.Context, token string, q api.MonthlyStatsQuery) ([]models.MonthlyStat, error)
}

// AnalyticsService reads strategy analytics. Every call needs a verified
// session.
type AnalyticsService interface {
	Strategies(ctx context.Context) ([]models.Strategy, error)
	Strategy(ctx context.Context, id string) (*models.StrategyDetail, error)
	MonthlyStats(ctx context.Context, modelID string, yearlyOnly bool, limit, offset int) ([]models.MonthlyStat, error)
}

type analyticsService struct {
	client AnalyticsClient
	guard  *session.Guard
	logger logging.Logger
}

func NewAnalyticsService(client AnalyticsClient, guard *session.Guard, logger logging.Logger) AnalyticsService {
	return &analyticsService{client: client, guard: guard, logger: logger.With("service", "analytics")}
}

func (s *analyticsService) Strategies(ctx context.Context) ([]models.Strategy, error) {
	token, err := s.guard.Token(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.client.Strategies(ctx, token)
	if err != nil {
		return nil, dropOnUnauthorized(ctx, s.guard, s.logger, "list strategies", err)
	}
	return list, nil
}

func (s *analyticsService) Strategy(ctx context.Context, id string) (*models.StrategyDetail, error) {
	token, err := s.guard.Token(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.client.Strategy(ctx, token, id)
	if err != nil {
		return nil, dropOnUnauthorized(ctx, s.guard, s.logger, "get strategy", err)
	}
	d, err := ParseStrategyDetail(doc)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", id, err)
	}
	if d.ID == "" {
		d.ID = id
	}
	return d, nil
}

func (s *analyticsService) MonthlyStats(ctx context.Context, modelID string, yearlyOnly bool, limit, offset int) ([]models.MonthlyStat, error) {
	token, err := s.guard.Token(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMonthlyStatsLimit
	}
	filter := map[string]any{"model_id": modelID}
	if yearlyOnly {
		filter["isYearly"] = true
	}
	rows, err := s.client.MonthlyStats(ctx, token, api.MonthlyStatsQuery{
		Sort:   map[string]string{"year": "asc"},
		Filter: filter,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, dropOnUnauthorized(ctx, s.guard, s.logger, "monthly stats", err)
	}
	return rows, nil
}

// ParseStrategyDetail shapes the loosely typed GET /strategy/{id} document.
// Missing sections stay empty; a section of the wrong type is an error.
func ParseStrategyDetail(doc any) (*models.StrategyDetail, error) {
	if _, ok := doc.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: strategy document is %T", api.ErrBadResponse, doc)
	}

	d := &models.StrategyDetail{
		ID:        lookupString(doc, "$.strategy.id"),
		Name:      lookupString(doc, "$.strategy.name"),
		Benchmark: lookupString(doc, "$.strategy.benchmark"),
	}

	if v, ok := lookup(doc, "$.rolling_returns.returns.returns"); ok {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: rolling returns are %T", api.ErrBadResponse, v)
		}
		rr, err := rollingReturns(m)
		if err != nil {
			return nil, err
		}
		d.RollingReturns = rr
	}

	annual, err := objects(doc, "$.annual_return")
	if err != nil {
		return nil, err
	}
	for _, o := range annual {
		val, err := toDecimal(o["value"])
		if err != nil {
			return nil, fmt.Errorf("annual return %v: %w", o["year"], err)
		}
		d.AnnualReturns = append(d.AnnualReturns, models.AnnualReturn{Year: toString(o["year"]), Value: val})
	}

	growth, err := objects(doc, "$.portfolio_growth")
	if err != nil {
		return nil, err
	}
	for _, o := range growth {
		val, err := toDecimal(first(o, "value", "portfolio", "amount"))
		if err != nil {
			return nil, fmt.Errorf("portfolio growth: %w", err)
		}
		d.Growth = append(d.Growth, models.GrowthPoint{
			Label: toString(first(o, "date", "label", "year", "month")),
			Value: val,
		})
	}

	stats, err := objects(doc, "$.stats")
	if err != nil {
		return nil, err
	}
	for _, o := range stats {
		d.Stats = append(d.Stats, models.Metric{
			Name:      toString(first(o, "name", "metric", "label")),
			Portfolio: toString(first(o, "portfolio", "value")),
			Benchmark: toString(o["benchmark"]),
		})
	}

	if v, ok := lookup(doc, "$.strategy.ticker_strategy_map[*].ticker"); ok {
		if list, ok := v.([]any); ok {
			for _, t := range list {
				if s := toString(t); s != "" {
					d.Tickers = append(d.Tickers, s)
				}
			}
		}
	}

	return d, nil
}

// RollingPeriodLabel turns an API key like "3_year" into "3 Year".
func RollingPeriodLabel(key string) string {
	return strings.Replace(strings.ReplaceAll(key, "_", " "), "year", "Year", 1)
}

func rollingReturns(m map[string]any) ([]models.RollingReturn, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iok := leadingInt(keys[i])
		nj, jok := leadingInt(keys[j])
		if iok && jok && ni != nj {
			return ni < nj
		}
		if iok != jok {
			return iok
		}
		return keys[i] < keys[j]
	})

	out := make([]models.RollingReturn, 0, len(keys))
	for _, k := range keys {
		val, err := toDecimal(m[k])
		if err != nil {
			return nil, fmt.Errorf("rolling return %s: %w", k, err)
		}
		out = append(out, models.RollingReturn{Period: RollingPeriodLabel(k), Return: val})
	}
	return out, nil
}

func leadingInt(s string) (int, bool) {
	head, _, _ := strings.Cut(s, "_")
	n, err := strconv.Atoi(head)
	return n, err == nil
}

func lookup(doc any, path string) (any, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

func lookupString(doc any, path string) string {
	v, _ := lookup(doc, path)
	return toString(v)
}

func objects(doc any, path string) ([]map[string]any, error) {
	v, ok := lookup(doc, path)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", api.ErrBadResponse, path, v)
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		o, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s item is %T", api.ErrBadResponse, path, item)
		}
		out = append(out, o)
	}
	return out, nil
}

func first(o map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := o[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return decimal.NewFromFloat(x).String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// toDecimal accepts JSON numbers and numeric strings, optionally with a
// trailing percent sign. null is zero.
func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(x), "%"))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q is not a number", api.ErrBadResponse, x)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %T", api.ErrBadResponse, v)
	}
}
