package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/fixtures"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/models"
)

var ErrNotFound = errors.New("not found")

// MonthlyStatsQuery selects rows of the monthly statistics table.
// Sort maps a column (year, month) to asc or desc; Filter keys are
// model_id, isYearly and year. Limit 0 means no limit.
type MonthlyStatsQuery struct {
	Sort   map[string]string
	Filter map[string]any
	Limit  int
	Offset int
}

// AnalyticsService serves the embedded strategy fixtures.
type AnalyticsService struct {
	strategies []models.Strategy
	details    map[string]json.RawMessage
	monthly    []models.MonthlyStat
}

func NewAnalyticsService() (*AnalyticsService, error) {
	return newAnalyticsService(fixtures.FS)
}

func newAnalyticsService(fsys fs.FS) (*AnalyticsService, error) {
	s := &AnalyticsService{details: make(map[string]json.RawMessage)}

	var list struct {
		Strategies []models.Strategy `json:"strategies"`
	}
	if err := readJSON(fsys, "strategies.json", &list); err != nil {
		return nil, err
	}
	s.strategies = list.Strategies

	if err := readJSON(fsys, "monthly_stats.json", &s.monthly); err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, "strategies/*.json")
	if err != nil {
		return nil, fmt.Errorf("list strategy fixtures: %w", err)
	}
	for _, f := range files {
		var doc json.RawMessage
		if err := readJSON(fsys, f, &doc); err != nil {
			return nil, err
		}
		s.details[strings.TrimSuffix(path.Base(f), ".json")] = doc
	}
	return s, nil
}

func readJSON(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return nil
}

func (s *AnalyticsService) Strategies() []models.Strategy {
	out := make([]models.Strategy, len(s.strategies))
	copy(out, s.strategies)
	return out
}

// Strategy returns the raw analytics document of one strategy.
func (s *AnalyticsService) Strategy(id string) (json.RawMessage, error) {
	doc, ok := s.details[id]
	if !ok {
		return nil, fmt.Errorf("%w: strategy %q", ErrNotFound, id)
	}
	return doc, nil
}

func (s *AnalyticsService) MonthlyStats(q MonthlyStatsQuery) ([]models.MonthlyStat, error) {
	keep, err := statsFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	less, err := statsOrder(q.Sort)
	if err != nil {
		return nil, err
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, fmt.Errorf("%w: negative limit or offset", ErrValidation)
	}

	rows := make([]models.MonthlyStat, 0, len(s.monthly))
	for _, r := range s.monthly {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })

	if q.Offset >= len(rows) {
		return []models.MonthlyStat{}, nil
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func statsFilter(filter map[string]any) (func(models.MonthlyStat) bool, error) {
	var preds []func(models.MonthlyStat) bool

	for k, v := range filter {
		switch k {
		case "model_id":
			id, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: model_id must be a string", ErrValidation)
			}
			preds = append(preds, func(r models.MonthlyStat) bool { return r.ModelID == id })
		case "isYearly":
			yearly, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: isYearly must be a boolean", ErrValidation)
			}
			preds = append(preds, func(r models.MonthlyStat) bool { return r.IsYearly == yearly })
		case "year":
			year, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: year must be a number", ErrValidation)
			}
			preds = append(preds, func(r models.MonthlyStat) bool { return float64(r.Year) == year })
		default:
			return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, k)
		}
	}

	return func(r models.MonthlyStat) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}, nil
}

// statsOrder compares by year first and month second, each in the
// requested direction. Unsorted columns keep fixture order.
func statsOrder(order map[string]string) (func(a, b models.MonthlyStat) bool, error) {
	dir := map[string]int{}
	for k, v := range order {
		if k != "year" && k != "month" {
			return nil, fmt.Errorf("%w: cannot sort by %q", ErrValidation, k)
		}
		switch strings.ToLower(v) {
		case "asc", "":
			dir[k] = 1
		case "desc":
			dir[k] = -1
		default:
			return nil, fmt.Errorf("%w: bad sort direction %q", ErrValidation, v)
		}
	}

	return func(a, b models.MonthlyStat) bool {
		if d := dir["year"]; d != 0 && a.Year != b.Year {
			return (a.Year < b.Year) == (d > 0)
		}
		if d := dir["month"]; d != 0 && a.Month != b.Month {
			return (a.Month < b.Month) == (d > 0)
		}
		return false
	}, nil
}
