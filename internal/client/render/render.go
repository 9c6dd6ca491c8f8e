// Package render turns client data into markdown and prints it on the
// terminal.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// Currency of portfolio growth amounts.
const Currency = money.USD

var tmpl = template.Must(template.New("render").Funcs(template.FuncMap{
	"cell":    Cell,
	"label":   Label,
	"money":   Money,
	"percent": Percent,
	"month":   monthName,
	"join":    strings.Join,
}).ParseFS(templates, "templates/*.md"))

func Profile(p *models.Profile) string {
	return renderTemplate("profile.md", p)
}

func Strategies(list []models.Strategy) string {
	return renderTemplate("strategies.md", list)
}

func StrategyDetail(d *models.StrategyDetail) string {
	return renderTemplate("strategy.md", d)
}

func MonthlyStats(modelID string, rows []models.MonthlyStat) string {
	return renderTemplate("monthly_stats.md", struct {
		ModelID string
		Rows    []models.MonthlyStat
	}{modelID, rows})
}

func renderTemplate(name string, data any) string {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}

// Money formats an amount in Currency, e.g. "$10,250.50".
func Money(v decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(v.Mul(factor).Round(0).IntPart(), Currency).Display()
}

// Percent formats a value that is already expressed in percent.
func Percent(v decimal.Decimal) string {
	return v.StringFixed(2) + "%"
}

// Label turns an API enum such as "UNITED_KINGDOM" into "United Kingdom".
func Label(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		w = strings.ToLower(w)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Cell escapes a value for use inside a markdown table.
func Cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return "-"
	}
	return time.Month(m).String()[:3]
}
