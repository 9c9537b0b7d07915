package flow

// State is a step of a single Execute call.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRendering
	StateInvoking
	StateValidatingOutput
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:             "idle",
	StateValidating:       "validating",
	StateRendering:        "rendering",
	StateInvoking:         "invoking",
	StateValidatingOutput: "validating_output",
	StateDone:             "done",
	StateFailed:           "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends a call.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
