package decoder

// Record widths are fixed per the EVTC layout. Counts for the agent and
// skill tables are explicit; combat items run to end of stream.
const (
	headerSize     = 16
	agentSize      = 96
	skillSize      = 68
	combatItemSize = 64
)

// State-change codes carried by combat items. Codes not listed here are
// preserved verbatim and surfaced as unknown events by the builder.
const (
	StateNone         uint8 = 0
	StateEnterCombat  uint8 = 1
	StateExitCombat   uint8 = 2
	StateChangeUp     uint8 = 3
	StateChangeDead   uint8 = 4
	StateChangeDown   uint8 = 5
	StateSpawn        uint8 = 6
	StateDespawn      uint8 = 7
	StateHealthUpdate uint8 = 8
	StateLogStart     uint8 = 9
	StateLogEnd       uint8 = 10
	StateWeaponSwap   uint8 = 11
	StateMaxHealth    uint8 = 12
	StatePointOfView  uint8 = 13
	StateLanguage     uint8 = 14
	StateGameBuild    uint8 = 15
	StateShardID      uint8 = 16
	StateReward       uint8 = 17
	StateBuffInitial  uint8 = 18
	StatePosition     uint8 = 19
	StateVelocity     uint8 = 20
)

// Header is the fixed 16-byte EVTC header.
type Header struct {
	// BuildDate is the "EVTCYYYYMMDD" build string of the recording addon.
	BuildDate string
	// Revision selects the combat item layout (0 or 1 are known).
	Revision uint8
	// BossID is the encounter/boss species id.
	BossID uint16
}

// RawAgent is one fixed-width agent table record.
type RawAgent struct {
	Address       uint64
	Profession    uint32
	IsElite       uint32
	Toughness     int16
	Concentration int16
	Healing       int16
	HitboxWidth   int16
	Condition     int16
	HitboxHeight  int16
	// Name is the raw 64-byte name block. For players it packs
	// name NUL account NUL subgroup NUL.
	Name [64]byte
}

// RawSkill is one fixed-width skill table record.
type RawSkill struct {
	ID   int32
	Name string
}

// RawCombatItem is one fixed-width combat item record. Field semantics
// depend on the state-change and discriminator bytes; the builder owns the
// mapping to typed events.
type RawCombatItem struct {
	Time            uint64
	SrcAgent        uint64
	DstAgent        uint64
	Value           int32
	BuffDmg         int32
	OverstackValue  uint32
	SkillID         uint32
	SrcInstID       uint16
	DstInstID       uint16
	SrcMasterInstID uint16
	DstMasterInstID uint16
	IFF             uint8
	Buff            uint8
	Result          uint8
	IsActivation    uint8
	IsBuffRemove    uint8
	IsNinety        uint8
	IsFifty         uint8
	IsMoving        uint8
	IsStateChange   uint8
	IsFlanking      uint8
	IsShields       uint8
	IsOffcycle      uint8

	// Raw is the record's original 64 bytes, kept so unmapped items can
	// be surfaced as opaque events without loss.
	Raw []byte
}

// Diagnostics counts recoverable anomalies absorbed during decoding.
type Diagnostics struct {
	// TruncatedBytes is the length of the trailing partial record, if any.
	TruncatedBytes int
}

// RawLog is the decoder's output: header, tables, and the combat item
// stream in file order.
type RawLog struct {
	Header      Header
	Agents      []RawAgent
	Skills      []RawSkill
	Items       []RawCombatItem
	Diagnostics Diagnostics
}
