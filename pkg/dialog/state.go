package dialog

// State is a lifecycle phase. Transitions only move forward.
type State int

const (
	StateConstructing State = iota
	StateRendering
	StateShown
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateRendering:
		return "rendering"
	case StateShown:
		return "shown"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// effects are adapter notifications collected under the dialog lock and run
// after it is released.
type effects []func()

func (fx *effects) add(f func()) {
	*fx = append(*fx, f)
}

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}
