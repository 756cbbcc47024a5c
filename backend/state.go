package backend

// State is a step of the dispatcher's lifecycle.
type State int

// Dispatcher states. A request always starts and ends in Idle.
const (
	Idle State = iota
	Parsed
	Interpreting
	Rendering
	Invoking
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Parsed:
		return "parsed"
	case Interpreting:
		return "interpreting"
	case Rendering:
		return "rendering"
	case Invoking:
		return "invoking"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}
