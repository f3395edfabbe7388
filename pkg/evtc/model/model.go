// Package model holds the typed object graph built from an EVTC log:
// agents, skills, the ordered event stream, the encounter classification,
// and the statistics snapshot derived from them.
//
// Everything here is built once and then treated as frozen. The pipeline
// never mutates an earlier stage's output; callers may share any of these
// values freely across goroutines after construction.
package model

import (
	"time"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
)

// AgentKind classifies a log participant.
type AgentKind uint8

const (
	AgentUnknown AgentKind = iota
	AgentPlayer
	AgentNPC
	AgentGadget
)

func (k AgentKind) String() string {
	switch k {
	case AgentPlayer:
		return "player"
	case AgentNPC:
		return "npc"
	case AgentGadget:
		return "gadget"
	default:
		return "unknown"
	}
}

// Team is an agent's allegiance relative to the recording player's squad.
type Team uint8

const (
	TeamUnknown Team = iota
	TeamFriend
	TeamFoe
)

// maxMasterDepth bounds ownership-chain walks. Real chains are 1-2 deep
// (pet, or pet-of-clone); the bound doubles as a cycle guard.
const maxMasterDepth = 8

// Agent is any participant in the log: player, NPC, or gadget.
type Agent struct {
	// Address is the stable per-log identity handle used by events.
	Address uint64
	// InstID is the per-instance id combat items reference; 0 if the
	// agent never appeared in a combat item.
	InstID uint16
	Name   string
	Kind   AgentKind
	Team   Team

	// SpeciesID identifies an NPC's species, or a gadget's pseudo-id.
	// Zero for players.
	SpeciesID uint16

	// Master is the controlling agent a minion's or pet's actions are
	// attributed to. Nil for top-level agents. The builder guarantees the
	// chain is acyclic; Owner walks it with a depth bound regardless.
	Master *Agent

	// FirstAware and LastAware bound the agent's observed existence on
	// the log clock, in milliseconds.
	FirstAware uint64
	LastAware  uint64

	Toughness     int16
	Concentration int16
	Healing       int16
	Condition     int16
}

// Owner resolves the attribution root of the ownership chain: the agent
// itself when it has no master, otherwise the topmost master. The walk is
// depth-bounded so a malformed chain can never loop.
func (a *Agent) Owner() *Agent {
	cur := a
	for i := 0; i < maxMasterDepth && cur.Master != nil; i++ {
		cur = cur.Master
	}
	return cur
}

// Player is an agent specialization for squad members.
type Player struct {
	*Agent
	// Account is the player's account identifier, e.g. "Name.1234".
	Account string
	// Subgroup is the squad subgroup number (1-based).
	Subgroup int
	// Profession is the raw profession code from the agent table.
	Profession uint32
	// Elite is the raw elite-specialization code.
	Elite uint32
}

// SkillSlot is a skill's slot category. Only available when external skill
// metadata is supplied; SlotNone otherwise.
type SkillSlot uint8

const (
	SlotNone SkillSlot = iota
	SlotWeapon
	SlotHeal
	SlotUtility
	SlotElite
)

// Skill is a skill or buff referenced by events.
type Skill struct {
	ID   int32
	Name string
	// Placeholder is set when the skill id appeared in events but not in
	// the log's skill table.
	Placeholder bool
}

// SkillInfo is slot and eligibility metadata for one skill, supplied by an
// optional external collaborator.
type SkillInfo struct {
	Slot SkillSlot
	// Professions lists the profession codes eligible to use the skill.
	// Empty means eligibility is unknown.
	Professions []uint32
}

// SkillMetadata is an optional lookup for skill slot/eligibility metadata.
// Its absence disables only the metadata-dependent statistics fields.
type SkillMetadata interface {
	Lookup(skillID int32) (SkillInfo, bool)
}

// Diagnostics counts recoverable anomalies absorbed while decoding and
// building. Anomalies never fail a log; these counters surface them.
type Diagnostics struct {
	// TruncatedBytes is the count of trailing bytes too short to form a
	// full combat item record.
	TruncatedBytes int
	// UnknownItems is the count of combat items kept as opaque events.
	UnknownItems int
	// PlaceholderAgents is the count of agents synthesized for addresses
	// referenced by items but absent from the agent table.
	PlaceholderAgents int
	// PlaceholderSkills is the count of skills synthesized for ids
	// referenced by items but absent from the skill table.
	PlaceholderSkills int
	// DuplicateSingletons counts extra point-of-view or log-start events
	// beyond the first (first occurrence wins).
	DuplicateSingletons int
}

// Log is the frozen typed form of one EVTC file.
type Log struct {
	// Revision is the combat item format revision from the header.
	Revision uint8
	// BuildDate is the telemetry addon build date string from the header.
	BuildDate string
	// BossID is the encounter/boss species id from the header.
	BossID uint16

	// Events is the full event stream, totally ordered by time with ties
	// kept in original record order.
	Events []event.Event
	Agents []*Agent
	// Players is the subset of Agents that are squad players, in agent
	// table order.
	Players []*Player
	Skills  map[int32]*Skill

	// PointOfView is the recording player's agent.
	PointOfView *Agent
	// StartTime is the server wall-clock time of the log-start event.
	StartTime time.Time
	// StartMS and EndMS bound the event stream on the log clock.
	StartMS uint64
	EndMS   uint64

	Diagnostics Diagnostics

	// Encounter is attached by the classifier.
	Encounter *Encounter
}

// AgentByAddress returns the agent with the given address handle, or nil.
func (l *Log) AgentByAddress(addr uint64) *Agent {
	for _, a := range l.Agents {
		if a.Address == addr {
			return a
		}
	}
	return nil
}

// SkillByID returns the skill with the given id, or nil.
func (l *Log) SkillByID(id int32) *Skill {
	return l.Skills[id]
}
