package feeder

// Mode is the feeder's operating policy for triggering a release.
type Mode int

const (
	// Immediate releases for a fixed short hold as soon as a run is
	// requested.
	Immediate Mode = iota
	// UserPrompted asks the operator for the hold duration first.
	UserPrompted
	// Delayed releases for a fixed long hold.
	Delayed
)

// Next advances the mode cyclically.
func (m Mode) Next() Mode {
	switch m {
	case Immediate:
		return UserPrompted
	case UserPrompted:
		return Delayed
	default:
		return Immediate
	}
}

// Label is the glyph sequence shown on the matrix for this mode.
func (m Mode) Label() string {
	switch m {
	case Immediate:
		return "M0"
	case UserPrompted:
		return "M1"
	case Delayed:
		return "M2"
	}
	return "M."
}

func (m Mode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case UserPrompted:
		return "user-prompted"
	case Delayed:
		return "delayed"
	}
	return "unknown"
}
