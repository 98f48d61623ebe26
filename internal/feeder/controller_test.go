package feeder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeder/pkg/matrix"
)

type fakeDisplay struct {
	mu     sync.Mutex
	frames []matrix.Frame
	clears int
}

func (d *fakeDisplay) Render(text string) {
	d.RenderFrame(matrix.Compose(text))
}

func (d *fakeDisplay) RenderFrame(f matrix.Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
}

func (d *fakeDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears++
}

func (d *fakeDisplay) last() (matrix.Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return matrix.Frame{}, false
	}
	return d.frames[len(d.frames)-1], true
}

func (d *fakeDisplay) cleared() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears
}

type fakeActuator struct {
	mu        sync.Mutex
	requested []Mode
	done      chan Run
}

func newFakeActuator() *fakeActuator {
	return &fakeActuator{done: make(chan Run, 1)}
}

func (a *fakeActuator) Request(m Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requested = append(a.requested, m)
	return true
}

func (a *fakeActuator) Done() <-chan Run {
	return a.done
}

func (a *fakeActuator) modes() []Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Mode(nil), a.requested...)
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestControllerRendersModeLabel(t *testing.T) {
	disp := &fakeDisplay{}
	presses := make(chan struct{}, 1)
	c := New(disp, newFakeActuator(), presses, Config{Tick: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	want := matrix.Compose("M0")
	eventually(t, func() bool {
		f, ok := disp.last()
		return ok && f == want
	}, "mode label never rendered")
}

func TestPressAdvancesModeExactlyOnce(t *testing.T) {
	disp := &fakeDisplay{}
	presses := make(chan struct{}, 1)
	c := New(disp, newFakeActuator(), presses, Config{Tick: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	presses <- struct{}{}
	eventually(t, func() bool { return c.Mode() == UserPrompted },
		"press did not advance the mode")

	// One debounced press, one transition: the mode stays put until
	// the next event.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, UserPrompted, c.Mode())
}

func TestRequestRunUsesCurrentMode(t *testing.T) {
	act := newFakeActuator()
	presses := make(chan struct{}, 1)
	c := New(&fakeDisplay{}, act, presses, Config{Tick: time.Millisecond})

	require.True(t, c.RequestRun())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	presses <- struct{}{}
	eventually(t, func() bool { return c.Mode() == UserPrompted }, "mode not advanced")
	require.True(t, c.RequestRun())

	assert.Equal(t, []Mode{Immediate, UserPrompted}, act.modes())
}

func TestCompletedRunOpensFeedbackWindow(t *testing.T) {
	disp := &fakeDisplay{}
	act := newFakeActuator()
	c := New(disp, act, make(chan struct{}), Config{
		Tick:     time.Millisecond,
		Feedback: 50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	act.done <- Run{Mode: Immediate, StartedAt: time.Now(), Held: time.Second}

	eventually(t, func() bool {
		f, ok := disp.last()
		return ok && f == matrix.Smiley
	}, "feedback frame never rendered")

	// Once the window passes the mode label comes back.
	label := matrix.Compose("M0")
	eventually(t, func() bool {
		f, ok := disp.last()
		return ok && f == label
	}, "mode label did not come back after feedback")
}

func TestShutdownClearsDisplay(t *testing.T) {
	disp := &fakeDisplay{}
	c := New(disp, newFakeActuator(), make(chan struct{}), Config{Tick: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("controller did not stop")
	}
	assert.Equal(t, 1, disp.cleared())
}
