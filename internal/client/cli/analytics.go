package cli

import (
	"context"

	"github.com/dmitrijs2005/pvisualizer/internal/client/render"
)

func (a *App) Strategies(ctx context.Context) error {
	return a.protect(ctx, func(ctx context.Context) error {
		list, err := a.analytics.Strategies(ctx)
		if err != nil {
			return err
		}
		return a.printer.Print(render.Strategies(list))
	})
}

func (a *App) Strategy(ctx context.Context, id string) error {
	return a.protect(ctx, func(ctx context.Context) error {
		d, err := a.analytics.Strategy(ctx, id)
		if err != nil {
			return err
		}
		return a.printer.Print(render.StrategyDetail(d))
	})
}

func (a *App) MonthlyStats(ctx context.Context, modelID string, yearlyOnly bool, limit, offset int) error {
	return a.protect(ctx, func(ctx context.Context) error {
		rows, err := a.analytics.MonthlyStats(ctx, modelID, yearlyOnly, limit, offset)
		if err != nil {
			return err
		}
		return a.printer.Print(render.MonthlyStats(modelID, rows))
	})
}
