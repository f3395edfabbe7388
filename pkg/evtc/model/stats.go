package model

import (
	"time"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
)

// DamageData is a per-agent damage aggregate over a time window.
type DamageData struct {
	// Power is total physical (direct strike) damage.
	Power int64
	// Condition is total buff/condition damage.
	Condition int64
	// DurationMS is the window length used for rate metrics.
	DurationMS uint64
}

// Total is power plus condition damage.
func (d DamageData) Total() int64 { return d.Power + d.Condition }

// DPS is total damage per second over the window. Zero-length windows
// report 0 rather than dividing by zero.
func (d DamageData) DPS() float64 {
	if d.DurationMS == 0 {
		return 0
	}
	return float64(d.Total()) / (float64(d.DurationMS) / 1000)
}

// Merge combines two aggregates for the same agent: damage sums, the window
// is the larger of the two (merging a sub-window into its parent keeps the
// parent's duration).
func (d DamageData) Merge(other DamageData) DamageData {
	out := DamageData{
		Power:      d.Power + other.Power,
		Condition:  d.Condition + other.Condition,
		DurationMS: d.DurationMS,
	}
	if other.DurationMS > out.DurationMS {
		out.DurationMS = other.DurationMS
	}
	return out
}

// DamageMap is damage attribution over one window, keyed by the attribution
// owner's agent address. Every squad player has an entry even at zero.
// Damage whose attacker could not be resolved is kept in Unattributed so
// window totals still reconcile.
type DamageMap struct {
	ByAgent      map[uint64]DamageData
	Unattributed DamageData
	DurationMS   uint64
}

// TotalDamage sums all attributed and unattributed damage in the window.
func (m DamageMap) TotalDamage() int64 {
	total := m.Unattributed.Total()
	for _, d := range m.ByAgent {
		total += d.Total()
	}
	return total
}

// PlayerData is the per-player rollup.
type PlayerData struct {
	Account  string
	Downs    int
	Deaths   int
	// SkillsUsed is every skill the player cast or dealt physical damage
	// with. Condition damage does not identify the originating skill and
	// is excluded.
	SkillsUsed []*Skill
	// HealSkills, UtilitySkills and EliteSkills are populated only when
	// external skill metadata is supplied, filtered to skills eligible
	// for the player's profession.
	HealSkills    []*Skill
	UtilitySkills []*Skill
	EliteSkills   []*Skill
}

// TrackedBuff configures one buff for stack simulation.
type TrackedBuff struct {
	ID   int32
	Name string
	// MaxStacks caps simulated stack intensity, e.g. 25.
	MaxStacks int
}

// StackSample is one point in a buff stack timeline: from Time onward the
// agent had Stacks stacks, until the next sample.
type StackSample struct {
	Time   uint64
	Stacks int
}

// BuffTimeline is a per-agent stack timeline for one tracked buff, keyed by
// agent address.
type BuffTimeline map[uint64][]StackSample

// BuffSimulationResult is the outcome of replaying apply/remove events for
// the tracked buffs.
type BuffSimulationResult struct {
	// Timelines is keyed by tracked buff id.
	Timelines map[int32]BuffTimeline
	// Untracked lists buff ids that appeared in apply/remove events but
	// were not configured for simulation, so callers can tell "zero
	// uptime" apart from "not simulated".
	Untracked []int32
}

// PhaseStats is the windowed statistics for one phase.
type PhaseStats struct {
	Phase  *Phase
	Damage DamageMap
	// TargetDamage restricts attribution to hits on one important enemy,
	// keyed by the target's agent address.
	TargetDamage map[uint64]DamageMap
}

// LogStatistics is the terminal, self-describing analytics snapshot.
// It is a pure function of (Log, configuration): identical inputs always
// produce an identical snapshot.
type LogStatistics struct {
	StartTime  time.Time
	RecordedBy string
	FightName  string
	Result     Result
	Mode       Mode
	Revision   uint8
	DurationMS uint64

	// PlayerData is keyed by player agent address.
	PlayerData map[uint64]*PlayerData

	// FullFightDamage covers the whole fight; TargetDamage restricts it
	// per important enemy.
	FullFightDamage DamageMap
	TargetDamage    map[uint64]DamageMap

	PhaseStats []PhaseStats

	BuffSimulation BuffSimulationResult

	// EventCounts tallies occurrences per event variant.
	EventCounts map[event.Kind]int

	Agents []*Agent
	Skills map[int32]*Skill
}
