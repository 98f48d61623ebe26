// Package button reads the mode push-button through its sysfs value
// file and turns bouncy contact transitions into single press events.
package button

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Line is a raw binary input level.
type Line interface {
	Read() (bool, error)
}

// SysfsLine reads a GPIO value file exposing "1" or "0".
type SysfsLine struct {
	Path string
}

func (l *SysfsLine) Read() (bool, error) {
	b, err := os.ReadFile(l.Path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(b)) == "1", nil
}

// Export makes a GPIO pin visible in sysfs. A pin that is already
// exported is not an error.
func Export(path string, pin int) error {
	err := os.WriteFile(path, []byte(strconv.Itoa(pin)), 0o644)
	if errors.Is(err, syscall.EBUSY) {
		return nil
	}
	return err
}

type Config struct {
	// Interval between scans of the line.
	Interval time.Duration
	// Poll is the busy-wait cadence while a pressed contact settles.
	Poll time.Duration
	// Settle bounds the busy-wait. A press held past the bound is
	// reported once, then suppressed until the level returns low.
	Settle time.Duration
}

// Debouncer delivers one event per physical press. Not safe for
// concurrent polling; Run is the single consumer of the line.
type Debouncer struct {
	line    Line
	cfg     Config
	presses chan struct{}

	// held marks a press already reported while the line stayed high.
	held bool
}

func New(line Line, cfg Config) *Debouncer {
	if cfg.Interval <= 0 {
		cfg.Interval = 20 * time.Millisecond
	}
	if cfg.Poll <= 0 {
		cfg.Poll = time.Millisecond
	}
	if cfg.Settle <= 0 {
		cfg.Settle = time.Second
	}
	return &Debouncer{
		line:    line,
		cfg:     cfg,
		presses: make(chan struct{}, 1),
	}
}

// Presses delivers one value per debounced press.
func (d *Debouncer) Presses() <-chan struct{} {
	return d.presses
}

// PollPress reads the line once and, when it is high, waits until the
// level drops back low before reporting the press as consumed, so a
// single physical press never counts twice. The wait is bounded by the
// configured settle budget; a press still held at the deadline is
// reported once and further scans stay silent until the line drops.
func (d *Debouncer) PollPress() (bool, error) {
	high, err := d.line.Read()
	if err != nil {
		return false, err
	}
	if d.held {
		if !high {
			d.held = false
		}
		return false, nil
	}
	if !high {
		return false, nil
	}

	deadline := time.Now().Add(d.cfg.Settle)
	for {
		level, err := d.line.Read()
		if err != nil {
			return false, err
		}
		if !level {
			return true, nil
		}
		if time.Now().After(deadline) {
			d.held = true
			return true, nil
		}
		time.Sleep(d.cfg.Poll)
	}
}

// Run scans the line until ctx is cancelled, pushing debounced presses
// into the channel. A press that arrives while the previous one is
// still unconsumed is dropped rather than queued. A vanished value
// file is fatal: the input surface cannot be re-established at runtime.
func (d *Debouncer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pressed, err := d.PollPress()
			if err != nil {
				slog.Error("Button read failed", "err", err)
				os.Exit(1)
			}
			if pressed {
				select {
				case d.presses <- struct{}{}:
				default:
				}
			}
		}
	}
}
