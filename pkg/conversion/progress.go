package conversion

// Phase names a bracketed step of a run.
type Phase string

const (
	PhaseGrantAdmin      Phase = "grant-admin"
	PhaseFetchMilestones Phase = "fetch-milestones"
	PhaseConvertCards    Phase = "converting-cards"
	PhaseRevokeAdmin     Phase = "revoke-admin"
)

// Progress receives the events of a run, one at a time, in order.
type Progress interface {
	Report(event Event)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(event Event)

func (f ProgressFunc) Report(event Event) {
	f(event)
}

// Event is one of Init, FetchingBoard, BoardFetched, PhaseStarted, PhaseProgress,
// PhaseErrors, PhaseDone and Finished.
type Event interface {
	// Flatten renders the event in the wire shape shared with other consumers.
	Flatten() Report
	isEvent()
}

// Report is the flat wire shape of an event. TotalElements is nil on step
// boundaries; Errors is only set on error ticks.
type Report struct {
	Step          string   `json:"step"`
	CurrentIndex  int      `json:"current_index"`
	TotalElements *int     `json:"total_elements,omitempty"`
	Errors        []string `json:"errors"`
}

type Init struct{}

type FetchingBoard struct{}

type BoardFetched struct{}

type PhaseStarted struct {
	Phase Phase
}

// PhaseProgress is emitted before the item at Index is processed.
type PhaseProgress struct {
	Phase Phase
	Index int
	Total int
}

// PhaseErrors carries the failures of the item at Index.
type PhaseErrors struct {
	Phase  Phase
	Index  int
	Total  int
	Errors []string
}

type PhaseDone struct {
	Phase Phase
}

type Finished struct {
	Index int
	Total int
}

func (Init) isEvent()          {}
func (FetchingBoard) isEvent() {}
func (BoardFetched) isEvent()  {}
func (PhaseStarted) isEvent()  {}
func (PhaseProgress) isEvent() {}
func (PhaseErrors) isEvent()   {}
func (PhaseDone) isEvent()     {}
func (Finished) isEvent()      {}

func (Init) Flatten() Report {
	return Report{Step: "init"}
}

func (FetchingBoard) Flatten() Report {
	return Report{Step: "fetching-board"}
}

func (BoardFetched) Flatten() Report {
	return Report{Step: "board-fetched"}
}

func (e PhaseStarted) Flatten() Report {
	return Report{Step: string(e.Phase) + "-start"}
}

func (e PhaseProgress) Flatten() Report {
	total := e.Total
	return Report{Step: string(e.Phase) + "-progress", CurrentIndex: e.Index, TotalElements: &total}
}

func (e PhaseErrors) Flatten() Report {
	total := e.Total
	return Report{Step: string(e.Phase) + "-errors", CurrentIndex: e.Index, TotalElements: &total, Errors: e.Errors}
}

func (e PhaseDone) Flatten() Report {
	return Report{Step: string(e.Phase) + "-done"}
}

func (e Finished) Flatten() Report {
	total := e.Total
	return Report{Step: "finished", CurrentIndex: e.Index, TotalElements: &total}
}
