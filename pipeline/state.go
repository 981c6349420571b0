package pipeline

// State identifies the stage a pipeline run is currently in.
type State int

const (
	StateValidating State = iota + 1
	StateFormulating
	StateExtracting
	StateRanking
	StateAssembling
	StateFailed
)

// String returns the stage name used in timings and logs.
func (s State) String() string {
	switch s {
	case StateValidating:
		return "validate"
	case StateFormulating:
		return "formulate"
	case StateExtracting:
		return "extract"
	case StateRanking:
		return "rank"
	case StateAssembling:
		return "assemble"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
