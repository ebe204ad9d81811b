package fsm

// Policy decides what Input does when the table has no entry for the current
// state and input. It is fixed when the machine is constructed.
type Policy int

const (
	// ErrorOnMiss treats a missing row or a missing input as an
	// *ErrUndefinedTransition. The caller is responsible for a total table.
	ErrorOnMiss Policy = iota
	// StayOnMiss resolves any miss to the current state. The transition still
	// runs: OnExit then OnEnter fire on the same state.
	StayOnMiss
)

func (p Policy) String() string {
	switch p {
	case ErrorOnMiss:
		return "error"
	case StayOnMiss:
		return "stay"
	default:
		return "unknown"
	}
}

// ParsePolicy maps "error" and "stay" to their Policy. The empty string is
// ErrorOnMiss.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "error":
		return ErrorOnMiss, true
	case "stay", "self":
		return StayOnMiss, true
	default:
		return ErrorOnMiss, false
	}
}
