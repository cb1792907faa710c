package facility

import "fmt"

type EventKind string

const (
	EventOrderComplete        EventKind = "order complete"
	EventIngredientAssignment EventKind = "ingredient assignment"
	EventIngredientDelivered  EventKind = "ingredient delivered"
	EventSourceSelection      EventKind = "source selection"
	EventRecipeSelection      EventKind = "recipe selection"
	EventSimulationComplete   EventKind = "simulation complete"
)

// Metric is one candidate's score during a source selection
type Metric struct {
	Candidate string
	Value     int
}

// Event is something observable a building did during a tick. Building is always the acting
// building; Counterpart is the other end (the chosen source or the receiving requester).
type Event struct {
	Kind        EventKind
	Cycle       int
	Building    string
	Counterpart string
	Item        string
	Output      string
	RequestID   int
	Policy      string
	Index       int
	Metrics     []Metric
	Details     []string
}

// Level is the minimum verbosity at which the event is shown
func (e Event) Level() int {
	switch e.Kind {
	case EventOrderComplete, EventSimulationComplete:
		return 0
	case EventIngredientAssignment, EventIngredientDelivered:
		return 1
	default:
		return 2
	}
}

// Lines renders the event as console lines
func (e Event) Lines() []string {
	var lines []string
	switch e.Kind {
	case EventOrderComplete:
		lines = append(lines, fmt.Sprintf("[order complete] Order %d completed (%s) at time %d", e.RequestID, e.Item, e.Cycle))
	case EventIngredientAssignment:
		lines = append(lines, fmt.Sprintf("[ingredient assignment]: %s assigned to %s to deliver to %s", e.Item, e.Counterpart, e.Building))
	case EventIngredientDelivered:
		lines = append(lines, fmt.Sprintf("[ingredient delivered]: %s to %s from %s on cycle %d", e.Item, e.Counterpart, e.Building, e.Cycle))
	case EventSourceSelection:
		lines = append(lines,
			fmt.Sprintf("[source selection]: %s (%s) has request for %s on %d", e.Building, e.Policy, e.Item, e.Cycle),
			fmt.Sprintf("[%s:%s:%d] For ingredient %s", e.Building, e.Output, e.Index, e.Item))
		for _, m := range e.Metrics {
			lines = append(lines, fmt.Sprintf("    %s: %d", m.Candidate, m.Value))
		}
		lines = append(lines, "    Selecting "+e.Counterpart)
	case EventRecipeSelection:
		lines = append(lines, fmt.Sprintf("[recipe selection]: %s has %s on cycle %d", e.Building, e.Policy, e.Cycle))
	case EventSimulationComplete:
		lines = append(lines, fmt.Sprintf("Simulation completed at time-step %d", e.Cycle))
	}
	return append(lines, e.Details...)
}

// EventSink receives the events a simulation lets through its verbosity filter
type EventSink interface {
	Publish(event Event)
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(Event)

func (f EventSinkFunc) Publish(e Event) { f(e) }
