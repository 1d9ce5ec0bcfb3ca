package organizer

import "fmt"

// Kind closes the set of ways a stage can fail, per catalog §7: a bad
// invocation, a broken entity invariant, the metadata tool itself failing,
// a policy the pipeline refuses to proceed under, or a missing external
// dependency (the time zone polygon dataset stage 3 loads).
type Kind int

const (
	KindConfiguration Kind = iota
	KindConstruction
	KindToolFailure
	KindPolicyViolation
	KindMissingDependency
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConstruction:
		return "construction"
	case KindToolFailure:
		return "tool failure"
	case KindPolicyViolation:
		return "policy violation"
	case KindMissingDependency:
		return "missing dependency"
	default:
		return "unknown"
	}
}

// StageError wraps a failure with the stage kind it belongs to, so callers
// can branch with errors.As instead of matching strings.
type StageError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func newStageError(kind Kind, op string, err error) *StageError {
	return &StageError{Kind: kind, Op: op, Err: err}
}
