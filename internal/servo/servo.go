// Package servo sequences the food-release pulse on a sysfs PWM
// channel.
package servo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"feeder/internal/feeder"
)

// PWM is the pulse output, addressed as textual register-style files.
type PWM interface {
	WriteAttr(name, value string) error
}

// SysfsPWM writes the period/enable/duty_cycle attributes of one
// exported pwm channel, e.g. /sys/class/pwm/pwmchip3/pwm1.
type SysfsPWM struct {
	Dir string
}

func (p *SysfsPWM) WriteAttr(name, value string) error {
	return os.WriteFile(filepath.Join(p.Dir, name), []byte(value), 0o644)
}

// Display is what the sequencer needs from the display driver: wiping
// the status frame when a run finishes.
type Display interface {
	Clear()
}

// Servo timing defaults, in nanoseconds. Release swings the horn open;
// latched holds it shut.
const (
	DefaultPeriod      = 20000000
	DefaultReleaseDuty = 2000000
	DefaultLatchedDuty = 1000000
)

type Config struct {
	Period      int
	ReleaseDuty int
	LatchedDuty int

	// Hold durations per mode. UserPrompted gets its hold from
	// PromptSeconds instead, invoked on the run worker before the
	// pulse is asserted; a prompt failure aborts the run untouched.
	ImmediateHold time.Duration
	DelayedHold   time.Duration
	PromptSeconds func() (int, error)
}

// Sequencer performs one timed release per run. Each run is a fresh
// worker; at most one may be in flight, a request during an active run
// is dropped.
type Sequencer struct {
	pwm     PWM
	display Display
	cfg     Config

	busy atomic.Bool
	done chan feeder.Run
	wg   sync.WaitGroup
}

func New(pwm PWM, display Display, cfg Config) *Sequencer {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.ReleaseDuty <= 0 {
		cfg.ReleaseDuty = DefaultReleaseDuty
	}
	if cfg.LatchedDuty <= 0 {
		cfg.LatchedDuty = DefaultLatchedDuty
	}
	if cfg.ImmediateHold <= 0 {
		cfg.ImmediateHold = time.Second
	}
	if cfg.DelayedHold <= 0 {
		cfg.DelayedHold = 10 * time.Second
	}
	if cfg.PromptSeconds == nil {
		cfg.PromptSeconds = stdinSeconds
	}
	return &Sequencer{
		pwm:     pwm,
		display: display,
		cfg:     cfg,
		done:    make(chan feeder.Run, 1),
	}
}

// Done delivers each completed run.
func (s *Sequencer) Done() <-chan feeder.Run {
	return s.done
}

// Request starts one release in mode m on its own worker. Reports
// false, without queueing, when a run is already releasing or cooling
// down.
func (s *Sequencer) Request(m feeder.Mode) bool {
	if !s.busy.CompareAndSwap(false, true) {
		slog.Debug("Release already in progress, request dropped", "mode", m)
		return false
	}
	s.wg.Add(1)
	go s.release(m)
	return true
}

// Wait joins any in-flight run. Used at shutdown so the pwm files are
// not torn down under a worker.
func (s *Sequencer) Wait() {
	s.wg.Wait()
}

func (s *Sequencer) hold(m feeder.Mode) (time.Duration, error) {
	switch m {
	case feeder.Delayed:
		return s.cfg.DelayedHold, nil
	case feeder.UserPrompted:
		secs, err := s.cfg.PromptSeconds()
		if err != nil {
			return 0, err
		}
		if secs < 0 {
			return 0, fmt.Errorf("negative hold: %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	default:
		return s.cfg.ImmediateHold, nil
	}
}

func (s *Sequencer) release(m feeder.Mode) {
	defer s.wg.Done()
	defer s.busy.Store(false)

	hold, err := s.hold(m)
	if err != nil {
		slog.Warn("No release duration, run aborted", "mode", m, "err", err)
		return
	}

	slog.Info("Releasing", "mode", m, "hold", hold)
	started := time.Now()

	s.write("period", s.cfg.Period)
	s.write("enable", 1)
	s.write("duty_cycle", s.cfg.ReleaseDuty)
	time.Sleep(hold)
	s.write("duty_cycle", s.cfg.LatchedDuty)

	s.display.Clear()

	// Feedback is best-effort: if the previous completion is still
	// undrained its window is lost, not queued. A blocking send would
	// pin this worker, and Wait, against a stopped controller at
	// shutdown.
	select {
	case s.done <- feeder.Run{Mode: m, StartedAt: started, Held: hold}:
	default:
	}
}

func (s *Sequencer) write(attr string, v int) {
	if err := s.pwm.WriteAttr(attr, strconv.Itoa(v)); err != nil {
		slog.Error("PWM write failed", "attr", attr, "err", err)
		os.Exit(1)
	}
}

func stdinSeconds() (int, error) {
	fmt.Println("Enter a time before releasing food (seconds)")
	var secs int
	if _, err := fmt.Scan(&secs); err != nil {
		return 0, err
	}
	return secs, nil
}
