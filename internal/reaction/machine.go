// Package reaction holds the viewer's reaction state machine for a single post.
//
// The machine is a pure function of (State, Event); callers apply the returned
// Effects (counter delta, feedback to emit) to their own state.
package reaction

import (
	"fmt"

	"vibefeed/internal/models"
)

// State is the viewer's reaction on one post plus the picker visibility.
// A zero State is Unset with the picker closed.
type State struct {
	// Kind is empty while Unset.
	Kind       models.ReactionKind
	PickerOpen bool
}

// Reacted reports whether the viewer currently has a reaction on the post.
func (s State) Reacted() bool {
	return s.Kind != ""
}

// EventType enumerates the inputs the machine understands.
type EventType int

const (
	// Select picks a kind from the picker.
	Select EventType = iota
	// QuickToggle is a click on the main reaction button.
	QuickToggle
	// OpenPicker is a hover entering the reaction button or picker.
	OpenPicker
	// ClosePicker is a hover leaving them.
	ClosePicker
)

func (t EventType) String() string {
	switch t {
	case Select:
		return "select"
	case QuickToggle:
		return "quick_toggle"
	case OpenPicker:
		return "open_picker"
	case ClosePicker:
		return "close_picker"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is one input to Transition. Kind is only read for Select.
type Event struct {
	Type EventType
	Kind models.ReactionKind
}

// SelectEvent builds a Select event for kind.
func SelectEvent(kind models.ReactionKind) Event {
	return Event{Type: Select, Kind: kind}
}

// Outcome names what a transition did to the reaction, for logs and metrics.
type Outcome string

const (
	OutcomeNone     Outcome = "none"
	OutcomeAdded    Outcome = "added"
	OutcomeRemoved  Outcome = "removed"
	OutcomeSwitched Outcome = "switched"
)

// Effects are the side effects a transition asks the owner to perform.
type Effects struct {
	// CounterDelta is -1, 0 or +1.
	CounterDelta int
	// Kind is the reaction the transition acted on, empty for picker events.
	Kind models.ReactionKind
	// Feedback is the kind to emit a feedback event for, empty for none.
	Feedback models.ReactionKind
	Outcome  Outcome
}

// Transition applies ev to s.
//
// Only presence changes move the counter: switching from one reaction to
// another leaves it untouched.
func Transition(s State, ev Event) (State, Effects, error) {
	switch ev.Type {
	case OpenPicker:
		s.PickerOpen = true
		return s, Effects{Outcome: OutcomeNone}, nil
	case ClosePicker:
		s.PickerOpen = false
		return s, Effects{Outcome: OutcomeNone}, nil
	case QuickToggle:
		kind := models.ReactionLove
		if s.Reacted() {
			kind = s.Kind
		}
		return selectKind(s, kind), effectsFor(s, kind), nil
	case Select:
		if !ev.Kind.Valid() {
			return s, Effects{Outcome: OutcomeNone}, models.NewValidationError(fmt.Sprintf("unknown reaction %q", ev.Kind))
		}
		return selectKind(s, ev.Kind), effectsFor(s, ev.Kind), nil
	default:
		return s, Effects{Outcome: OutcomeNone}, models.NewValidationError(fmt.Sprintf("unsupported reaction event %s", ev.Type))
	}
}

func selectKind(s State, kind models.ReactionKind) State {
	if s.Kind == kind {
		s.Kind = ""
	} else {
		s.Kind = kind
	}
	s.PickerOpen = false
	return s
}

// effectsFor is evaluated against the state before selectKind ran.
func effectsFor(prev State, kind models.ReactionKind) Effects {
	switch {
	case !prev.Reacted():
		return Effects{CounterDelta: 1, Kind: kind, Feedback: kind, Outcome: OutcomeAdded}
	case prev.Kind == kind:
		return Effects{CounterDelta: -1, Kind: kind, Outcome: OutcomeRemoved}
	default:
		return Effects{Kind: kind, Feedback: kind, Outcome: OutcomeSwitched}
	}
}
