// Package voice defines the boundary to the external voice engine. The
// engine itself (wake-word detection and intent inference) lives in a
// separate opaque process; the controller only honors two callback
// contracts.
package voice

import "log/slog"

// Event kinds the engine may report.
const (
	KindWake      = "wake"
	KindInference = "inference"
)

// Event is one notification from the voice engine. Inference fields are
// only meaningful when Kind is KindInference.
type Event struct {
	Kind       string `json:"kind"`
	Understood bool   `json:"understood,omitempty"`
	Intent     string `json:"intent,omitempty"`
	Slots      []Slot `json:"slots,omitempty"`
}

// Inference converts the event payload to the callback contract value.
func (e Event) Inference() Inference {
	return Inference{
		Understood: e.Understood,
		Intent:     e.Intent,
		Slots:      e.Slots,
	}
}

// Slot is one (key, value) pair extracted by the inference engine.
// Order is significant and preserved.
type Slot struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Inference is what the engine reports after an utterance.
type Inference struct {
	Understood bool   `json:"understood"`
	Intent     string `json:"intent"`
	Slots      []Slot `json:"slots,omitempty"`
}

// Callbacks are the two contracts the controller exposes to the engine:
// a zero-argument wake-word notification and an inference result.
type Callbacks struct {
	WakeWord  func()
	Inference func(Inference)
}

// Dispatch routes an engine event to the matching callback. Events of
// an unknown kind are logged and dropped.
func Dispatch(cb Callbacks, ev Event) {
	switch ev.Kind {
	case KindWake:
		cb.WakeWord()
	case KindInference:
		cb.Inference(ev.Inference())
	default:
		slog.Warn("Unknown event kind", "kind", ev.Kind)
	}
}
