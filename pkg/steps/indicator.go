package steps

// MarkerState is the visual state of one step indicator marker.
type MarkerState string

const (
	MarkerCurrent  MarkerState = "current"
	MarkerComplete MarkerState = "complete"
	// MarkerIncomplete is a step behind the current one that still has
	// unmet required fields.
	MarkerIncomplete MarkerState = "incomplete"
	MarkerPending    MarkerState = "pending"
)

// Marker is one entry of the step indicator.
type Marker struct {
	Index   int         `json:"index"`
	Label   string      `json:"label"`
	State   MarkerState `json:"state"`
	Missing []string    `json:"missing,omitempty"`
}

// Status is the validity of one step at indicator build time.
type Status struct {
	Label   string
	Valid   bool
	Missing []string
}

// Markers rebuilds the whole indicator for the current step. Steps before
// current are complete or incomplete; steps after it are pending.
func Markers(current int, statuses []Status) []Marker {
	out := make([]Marker, len(statuses))
	for i, status := range statuses {
		n := i + 1
		marker := Marker{Index: n, Label: status.Label}
		switch {
		case n == current:
			marker.State = MarkerCurrent
		case n > current:
			marker.State = MarkerPending
		case status.Valid:
			marker.State = MarkerComplete
		default:
			marker.State = MarkerIncomplete
			marker.Missing = append([]string(nil), status.Missing...)
		}
		out[i] = marker
	}
	return out
}
