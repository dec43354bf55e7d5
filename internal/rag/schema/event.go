package schema

import "encoding/json"

// EventKind discriminates the progress event union.
type EventKind int

const (
	// EventProgress is a bare progress update: {"progress": n}.
	EventProgress EventKind = iota
	// EventContent carries the cumulative answer so far together with the
	// progress and the source references: {"content", "progress", "references"}.
	EventContent
	// EventError is the terminal error marker: {"error": s}. No further
	// events follow it on a stream.
	EventError
)

// Event is one unit of a streamed status or result update. Events are
// consumed strictly in emission order and never replayed or reordered.
type Event struct {
	Kind       EventKind
	Progress   float64
	Content    string
	References []*Retrieved
	Error      string
}

// NewProgress builds a bare progress update.
func NewProgress(progress float64) *Event {
	return &Event{Kind: EventProgress, Progress: progress}
}

// NewContent builds an answer update carrying the cumulative content and the
// full reference list, so a client joining mid-stream still learns its sources.
func NewContent(content string, progress float64, references []*Retrieved) *Event {
	return &Event{Kind: EventContent, Progress: progress, Content: content, References: references}
}

// NewError builds the terminal error event.
func NewError(err error) *Event {
	return &Event{Kind: EventError, Error: err.Error()}
}

// MarshalJSON renders the wire shape for the event's kind. The shapes match
// what stream consumers parse: {"progress"}, {"content","progress","references"}
// and {"error"}.
func (e *Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventContent:
		refs := e.References
		if refs == nil {
			refs = []*Retrieved{}
		}
		return json.Marshal(struct {
			Content    string       `json:"content"`
			Progress   float64      `json:"progress"`
			References []*Retrieved `json:"references"`
		}{e.Content, e.Progress, refs})
	case EventError:
		return json.Marshal(struct {
			Error string `json:"error"`
		}{e.Error})
	default:
		return json.Marshal(struct {
			Progress float64 `json:"progress"`
		}{e.Progress})
	}
}
