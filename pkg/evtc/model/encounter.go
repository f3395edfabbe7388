package model

import "github.com/evtclog/evtclog-go/pkg/evtc/event"

// Mode is the difficulty classification of an encounter attempt.
type Mode uint8

const (
	ModeUnknown Mode = iota
	ModeNormal
	ModeChallenge
	ModeEmboldened
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeChallenge:
		return "challenge"
	case ModeEmboldened:
		return "emboldened"
	default:
		return "unknown"
	}
}

// Result is the outcome classification of an encounter attempt.
type Result uint8

const (
	ResultUnknown Result = iota
	ResultSuccess
	ResultFailure
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Encounter is the classification of a Log: mode, result, phases, and the
// agents designated as important enemies (bosses/targets, as opposed to
// trash or decorative agents).
type Encounter struct {
	// Name is the fight name, from the registered configuration or the
	// primary target's name.
	Name    string
	Mode    Mode
	Result  Result
	Phases  []*Phase
	Targets []*Agent
}

// Phase is a named time sub-window [Start, End) of the encounter. Phases
// are non-overlapping and time-ordered; adjacent phases may leave gaps for
// untracked time.
type Phase struct {
	Name string
	// Start and End are milliseconds on the log clock, half-open.
	Start uint64
	End   uint64
	// Events is the slice of log events whose time falls in the window.
	Events []event.Event
	// Targets is the subset of important enemies relevant to this phase.
	Targets []*Agent
}

// DurationMS is the phase length in milliseconds.
func (p *Phase) DurationMS() uint64 {
	if p.End < p.Start {
		return 0
	}
	return p.End - p.Start
}

// Contains reports whether t falls inside the phase window.
func (p *Phase) Contains(t uint64) bool {
	return t >= p.Start && t < p.End
}
