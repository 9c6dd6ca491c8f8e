package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Heartbeat polls the API root on a fixed interval and tracks whether the
// server answers. It never touches the session.
type Heartbeat struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger

	mu       sync.RWMutex
	mode     Mode
	onChange func(Mode)
}

func NewHeartbeat(p Pinger, interval, timeout time.Duration, logger logging.Logger) *Heartbeat {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Heartbeat{
		pinger:   p,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "heartbeat"),
	}
}

// OnChange registers fn to be called after every mode switch. Set it
// before Run.
func (h *Heartbeat) OnChange(fn func(Mode)) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

func (h *Heartbeat) Mode() Mode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mode
}

// Run beats once right away and then on every tick until ctx is done.
func (h *Heartbeat) Run(ctx context.Context) {
	h.beat(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.beat(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Heartbeat) beat(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, h.timeout)
	err := h.pinger.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		h.logger.Debug(ctx, "heartbeat failed", "error", err)
		h.setMode(ctx, ModeOffline)
		return
	}
	h.logger.Debug(ctx, "heartbeat ok")
	h.setMode(ctx, ModeOnline)
}

func (h *Heartbeat) setMode(ctx context.Context, m Mode) {
	h.mu.Lock()
	if h.mode == m {
		h.mu.Unlock()
		return
	}
	h.mode = m
	fn := h.onChange
	h.mu.Unlock()

	h.logger.Info(ctx, "switched mode", "mode", string(m))
	if fn != nil {
		fn(m)
	}
}
