package experiment

// State of the orchestrator.
type State int

// Orchestrator states. Failed and Done are terminal.
const (
	Idle State = iota
	Building
	Running
	Parsing
	Recording
	Failed
	Done
)

var stateNames = [...]string{"Idle", "Building", "Running", "Parsing", "Recording", "Failed", "Done"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions happen.
func (s State) Terminal() bool {
	return s == Failed || s == Done
}
