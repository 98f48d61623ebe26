// Package feeder owns the operating mode and the status display loop.
package feeder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"feeder/pkg/matrix"
)

// Run describes one completed release.
type Run struct {
	Mode      Mode
	StartedAt time.Time
	Held      time.Duration
}

// Actuator performs release runs. Request reports false when a run is
// already in flight; Done delivers each completed run.
type Actuator interface {
	Request(Mode) bool
	Done() <-chan Run
}

// Display is the subset of the display driver the controller renders
// through.
type Display interface {
	Render(text string)
	RenderFrame(matrix.Frame)
	Clear()
}

type Config struct {
	// Tick is the status render cadence. Presses and completions are
	// only acted on between ticks.
	Tick time.Duration
	// Feedback is how long the feedback frame stays up after a run.
	Feedback time.Duration
}

// Controller is the mode state machine. It owns the current mode; the
// only mutation path is a debounced press event.
type Controller struct {
	display  Display
	actuator Actuator
	presses  <-chan struct{}
	cfg      Config

	mu   sync.Mutex
	mode Mode
}

func New(display Display, actuator Actuator, presses <-chan struct{}, cfg Config) *Controller {
	if cfg.Tick <= 0 {
		cfg.Tick = 100 * time.Millisecond
	}
	if cfg.Feedback <= 0 {
		cfg.Feedback = 5 * time.Second
	}
	return &Controller{
		display:  display,
		actuator: actuator,
		presses:  presses,
		cfg:      cfg,
	}
}

// Mode returns the current operating mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// RequestRun asks the actuator for one release in the current mode.
// Reports false when a run is already in flight.
func (c *Controller) RequestRun() bool {
	return c.actuator.Request(c.Mode())
}

func (c *Controller) advance() {
	c.mu.Lock()
	c.mode = c.mode.Next()
	m := c.mode
	c.mu.Unlock()

	slog.Info("Mode changed", "mode", m, "label", m.Label())
}

// Run drives the status display until ctx is cancelled, then clears it.
// Each tick renders either the feedback frame, while a run completed
// recently enough, or the current mode label.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	var feedbackUntil time.Time
	for {
		select {
		case <-ctx.Done():
			c.display.Clear()
			return
		case <-c.presses:
			c.advance()
		case run := <-c.actuator.Done():
			slog.Info("Release finished", "mode", run.Mode, "held", run.Held)
			feedbackUntil = time.Now().Add(c.cfg.Feedback)
		case <-ticker.C:
			if time.Now().Before(feedbackUntil) {
				c.display.RenderFrame(matrix.Smiley)
			} else {
				c.display.Render(c.Mode().Label())
			}
		}
	}
}
