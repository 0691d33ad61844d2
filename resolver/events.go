package resolver

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
)

// URIChangeEvent is the change notification emitted once per URI mutation,
// in the same transaction as the mutation itself. Exactly one of URIAdded or
// URIRemoved is set, as short-string fragments of the affected URI.
type URIChangeEvent struct {
	URIAdded   []felt.Felt
	URIRemoved []felt.Felt
}

// AddedURI decodes the added URI, or returns an empty string.
func (e URIChangeEvent) AddedURI() (string, error) {
	return felt.DecodeLongString(e.URIAdded)
}

// RemovedURI decodes the removed URI, or returns an empty string.
func (e URIChangeEvent) RemovedURI() (string, error) {
	return felt.DecodeLongString(e.URIRemoved)
}

// EventSink consumes URI change notifications. Implementations must not
// block: the sink is invoked while the contract mutation is being applied.
type EventSink interface {
	URIChanged(event URIChangeEvent)
}

type discardSink struct{}

func (discardSink) URIChanged(URIChangeEvent) {}

// LogSink is an EventSink that writes change notifications to a structured
// logger.
type LogSink struct {
	Log *slog.Logger
}

// URIChanged implements EventSink.
func (s LogSink) URIChanged(event URIChangeEvent) {
	added, _ := event.AddedURI()
	removed, _ := event.RemovedURI()
	s.Log.Info("Resolver endpoint set changed", "uriAdded", added, "uriRemoved", removed)
}

// EventRecorder is an EventSink that retains all notifications in order.
// Used by tests and by pollers mirroring the endpoint set.
type EventRecorder struct {
	mu     sync.Mutex
	events []URIChangeEvent
}

// URIChanged implements EventSink.
func (r *EventRecorder) URIChanged(event URIChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of all recorded notifications in emission order.
func (r *EventRecorder) Events() []URIChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
