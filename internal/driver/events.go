package driver

// Stage names one of Build's pipeline phases, reported to an optional
// progress sink (internal/ui) that drives a TUI model off it.
type Stage string

const (
	StageParse    Stage = "parse"
	StageDiagnose Stage = "diagnose"
	StageLower    Stage = "lower"
)

// Status captures progress within a Stage.
type Status string

const (
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for the overall build (File is empty) or, once
// per-file fan-out lands in a future extension, for a single file.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

func emit(events chan<- Event, stage Stage, status Status, err error) {
	if events == nil {
		return
	}
	events <- Event{Stage: stage, Status: status, Err: err}
}
