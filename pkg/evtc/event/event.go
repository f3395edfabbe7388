// Package event defines the typed combat events produced from an EVTC log.
//
// Events form a closed union: every variant implements the Event interface
// and carries a millisecond timestamp on the log's internal clock. Agents
// are referenced by their 64-bit address handle rather than by pointer, so
// events stay plain values with no back-references into the agent table.
package event

// Kind identifies an event variant.
type Kind uint8

const (
	// KindUnknown is the catch-all for combat items the builder does not
	// recognize. The raw record is preserved so newer telemetry revisions
	// degrade gracefully instead of failing the whole log.
	KindUnknown Kind = iota
	KindPhysicalDamage
	KindBuffDamage
	KindBuffApply
	KindBuffRemove
	KindSkillCast
	KindDowned
	KindDead
	KindSpawn
	KindDespawn
	KindHealthUpdate
	KindPointOfView
	KindLogStart
	KindLogEnd
	KindReward
)

// String returns the snake_case name used in CLI output and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindPhysicalDamage:
		return "physical_damage"
	case KindBuffDamage:
		return "buff_damage"
	case KindBuffApply:
		return "buff_apply"
	case KindBuffRemove:
		return "buff_remove"
	case KindSkillCast:
		return "skill_cast"
	case KindDowned:
		return "downed"
	case KindDead:
		return "dead"
	case KindSpawn:
		return "spawn"
	case KindDespawn:
		return "despawn"
	case KindHealthUpdate:
		return "health_update"
	case KindPointOfView:
		return "point_of_view"
	case KindLogStart:
		return "log_start"
	case KindLogEnd:
		return "log_end"
	case KindReward:
		return "reward"
	default:
		return "unknown"
	}
}

// Event is the closed interface over all combat event variants.
// Consumers switch on Kind() (or type-switch) and must handle KindUnknown.
type Event interface {
	Kind() Kind
	// Time is milliseconds on the log's monotonic clock. The absolute
	// wall-clock anchor comes from the LogStart event.
	Time() uint64

	sealed()
}

// Base carries the timestamp shared by every variant.
type Base struct {
	At uint64
}

func (b Base) Time() uint64 { return b.At }
func (Base) sealed()        {}

// HitResult is the outcome code of a physical hit.
type HitResult uint8

const (
	HitNormal HitResult = iota
	HitCritical
	HitGlance
	HitBlocked
	HitEvaded
	HitInterrupted
	HitAbsorbed
	HitBlinded
	HitKillingBlow
	HitDowning
)

// Dealt reports whether the hit connected for damage.
func (r HitResult) Dealt() bool {
	switch r {
	case HitNormal, HitCritical, HitGlance, HitKillingBlow, HitDowning:
		return true
	}
	return false
}

// PhysicalDamage is a direct strike: attacker, defender, skill, damage.
type PhysicalDamage struct {
	Base
	Src      uint64
	Dst      uint64
	SkillID  int32
	Damage   int32
	Result   HitResult
	Moving   bool
	Flanking bool
}

func (PhysicalDamage) Kind() Kind { return KindPhysicalDamage }

// BuffDamage is a condition/buff tick. The skill id identifies the condition
// applied, not the cast that applied it, so buff damage cannot be attributed
// to a specific used skill.
type BuffDamage struct {
	Base
	Src     uint64
	Dst     uint64
	SkillID int32
	Damage  int32
}

func (BuffDamage) Kind() Kind { return KindBuffDamage }

// BuffApply adds one stack of a buff to Dst.
type BuffApply struct {
	Base
	Src        uint64
	Dst        uint64
	BuffID     int32
	DurationMS int32
}

func (BuffApply) Kind() Kind { return KindBuffApply }

// RemoveKind distinguishes how buff stacks were removed.
type RemoveKind uint8

const (
	RemoveAll RemoveKind = iota + 1
	RemoveSingle
	RemoveManual
)

// BuffRemove removes one or all stacks of a buff from Src.
type BuffRemove struct {
	Base
	Src     uint64
	Dst     uint64
	BuffID  int32
	Removal RemoveKind
	// Stacks is the number of stacks removed when known, 0 otherwise.
	// RemoveAll with Stacks==0 means "clear everything".
	Stacks int
}

func (BuffRemove) Kind() Kind { return KindBuffRemove }

// CastState is the activation phase of a skill cast.
type CastState uint8

const (
	CastStarted CastState = iota + 1
	CastQuickness
	CastCanceled
	CastCompleted
	CastReset
)

// SkillCast records an agent activating a skill.
type SkillCast struct {
	Base
	Src     uint64
	SkillID int32
	State   CastState
}

func (SkillCast) Kind() Kind { return KindSkillCast }

// Downed marks an agent entering the downed state.
type Downed struct {
	Base
	Agent uint64
}

func (Downed) Kind() Kind { return KindDowned }

// Dead marks an agent dying.
type Dead struct {
	Base
	Agent uint64
}

func (Dead) Kind() Kind { return KindDead }

// Spawn marks an agent becoming tracked.
type Spawn struct {
	Base
	Agent uint64
}

func (Spawn) Kind() Kind { return KindSpawn }

// Despawn marks an agent leaving tracking range.
type Despawn struct {
	Base
	Agent uint64
}

func (Despawn) Kind() Kind { return KindDespawn }

// HealthUpdate reports an agent's health fraction in [0,1].
type HealthUpdate struct {
	Base
	Agent  uint64
	Health float64
}

func (HealthUpdate) Kind() Kind { return KindHealthUpdate }

// PointOfView identifies the recording player's agent.
// Exactly one is expected per log.
type PointOfView struct {
	Base
	Agent uint64
}

func (PointOfView) Kind() Kind { return KindPointOfView }

// LogStart anchors the log clock to wall-clock time.
// Exactly one is expected per log.
type LogStart struct {
	Base
	// ServerUnix and LocalUnix are seconds since the Unix epoch as
	// reported by the game server and the recording client.
	ServerUnix uint32
	LocalUnix  uint32
}

func (LogStart) Kind() Kind { return KindLogStart }

// LogEnd closes the log clock.
type LogEnd struct {
	Base
	ServerUnix uint32
	LocalUnix  uint32
}

func (LogEnd) Kind() Kind { return KindLogEnd }

// Reward records an encounter reward chest for the recording player.
type Reward struct {
	Base
	Agent    uint64
	RewardID uint64
}

func (Reward) Kind() Kind { return KindReward }

// Unknown preserves a combat item the builder could not map.
// StateChange is the unrecognized state-change code; Raw is the full
// 64-byte record exactly as decoded.
type Unknown struct {
	Base
	StateChange uint8
	Raw         []byte
}

func (Unknown) Kind() Kind { return KindUnknown }
