package session

import "context"

type State int

const (
	Unknown State = iota
	Verifying
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Verifying:
		return "VERIFYING"
	case Authenticated:
		return "AUTHENTICATED"
	case Unauthenticated:
		return "UNAUTHENTICATED"
	default:
		return "INVALID"
	}
}

func (s State) resolved() bool {
	return s == Authenticated || s == Unauthenticated
}

// Snapshot is the session as consumers see it. It is derived from State
// and never stored.
type Snapshot struct {
	State      State
	IsLoggedIn bool
	IsLoading  bool
}

func snapshotOf(s State) Snapshot {
	return Snapshot{
		State:      s,
		IsLoggedIn: s == Authenticated,
		IsLoading:  s == Unknown || s == Verifying,
	}
}

type Action int

const (
	Loading Action = iota
	Render
	Redirect
)

func (a Action) String() string {
	switch a {
	case Loading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "invalid"
	}
}

// View is protected content. It runs only after the gate admitted it.
type View func(ctx context.Context) error

// Decision tells the hosting view what to show. View is set for Render,
// RedirectTo for Redirect.
type Decision struct {
	Action     Action
	View       View
	RedirectTo string
}
