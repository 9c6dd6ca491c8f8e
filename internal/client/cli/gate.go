package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pvisualizer/internal/client/session"
)

// ErrLoginRequired is returned by protected commands when the gate
// redirects to login.
var ErrLoginRequired = errors.New("login required")

// protect runs view once the guard admits it. A Loading decision resolves
// the session first; the user sees a short notice while that happens.
func (a *App) protect(ctx context.Context, view session.View) error {
	d := a.guard.Gate(view)
	if d.Action == session.Loading {
		a.println("Checking session...")
		if _, err := a.guard.Verify(ctx); err != nil {
			return err
		}
		d = a.guard.Gate(view)
	}

	switch d.Action {
	case session.Render:
		return d.View(ctx)
	case session.Redirect:
		a.logger.Debug(ctx, "redirect", "to", d.RedirectTo)
		a.println("Login required. Run 'login' first.")
		return ErrLoginRequired
	default:
		return errors.New("session still loading")
	}
}
