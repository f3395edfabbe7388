// Package evtctest builds synthetic EVTC byte streams for tests.
//
// Fixtures are revision 1 and little-endian, matching the decoder. The
// builder assigns instance ids in agent-add order and fills combat item
// instance/master fields from agent addresses, so tests describe logs in
// terms of agents and timestamps rather than raw record fields.
package evtctest

import "encoding/binary"

const (
	headerSize = 16
	agentSize  = 96
	skillSize  = 68
	itemSize   = 64
)

type agent struct {
	address    uint64
	profession uint32
	isElite    uint32
	toughness  int16
	name       []byte
	instID     uint16
}

type skill struct {
	id   int32
	name string
}

// Item is one combat item in builder terms. Zero values are valid; helper
// methods on Builder fill the common shapes.
type Item struct {
	Time        uint64
	Src, Dst    uint64
	Value       int32
	BuffDmg     int32
	SkillID     uint32
	IFF         uint8
	Buff        uint8
	Result      uint8
	Activation  uint8
	BuffRemove  uint8
	StateChange uint8
}

// Builder accumulates agents, skills and items and serializes them.
type Builder struct {
	BossID    uint16
	BuildDate string

	agents  []agent
	skills  []skill
	items   []Item
	masters map[uint64]uint64
}

// New returns a Builder for the given boss species id.
func New(bossID uint16) *Builder {
	return &Builder{
		BossID:    bossID,
		BuildDate: "EVTC20240101",
		masters:   make(map[uint64]uint64),
	}
}

// AddPlayer adds a player agent. The name block packs
// name NUL account NUL subgroup NUL like real logs do.
func (b *Builder) AddPlayer(address uint64, name, account string, subgroup int) *Builder {
	block := make([]byte, 0, 64)
	block = append(block, name...)
	block = append(block, 0)
	block = append(block, ':')
	block = append(block, account...)
	block = append(block, 0)
	block = append(block, byte('0'+subgroup))
	block = append(block, 0)
	b.agents = append(b.agents, agent{
		address:    address,
		profession: 1,
		isElite:    0,
		name:       block,
		instID:     uint16(len(b.agents) + 1),
	})
	return b
}

// AddNPC adds an NPC agent with the given species id.
func (b *Builder) AddNPC(address uint64, species uint16, name string) *Builder {
	block := append([]byte(name), 0)
	b.agents = append(b.agents, agent{
		address:    address,
		profession: uint32(species),
		isElite:    0xFFFFFFFF,
		name:       block,
		instID:     uint16(len(b.agents) + 1),
	})
	return b
}

// AddGadget adds a gadget agent.
func (b *Builder) AddGadget(address uint64, pseudoID uint16, name string) *Builder {
	block := append([]byte(name), 0)
	b.agents = append(b.agents, agent{
		address:    address,
		profession: 0xFFFF0000 | uint32(pseudoID),
		isElite:    0xFFFFFFFF,
		name:       block,
		instID:     uint16(len(b.agents) + 1),
	})
	return b
}

// SetToughness sets the toughness rating on an already-added agent.
func (b *Builder) SetToughness(address uint64, toughness int16) *Builder {
	for i := range b.agents {
		if b.agents[i].address == address {
			b.agents[i].toughness = toughness
		}
	}
	return b
}

// AddSkill adds a skill table entry.
func (b *Builder) AddSkill(id int32, name string) *Builder {
	b.skills = append(b.skills, skill{id: id, name: name})
	return b
}

// SetMaster marks minion as owned by master: items sourced from minion get
// the master's instance id.
func (b *Builder) SetMaster(minion, master uint64) *Builder {
	b.masters[minion] = master
	return b
}

// AddItem appends a raw item as-is.
func (b *Builder) AddItem(item Item) *Builder {
	b.items = append(b.items, item)
	return b
}

// LogStart appends the log-start state change.
func (b *Builder) LogStart(t uint64, serverUnix, localUnix uint32) *Builder {
	return b.AddItem(Item{Time: t, Value: int32(serverUnix), BuffDmg: int32(localUnix), StateChange: 9})
}

// LogEnd appends the log-end state change.
func (b *Builder) LogEnd(t uint64, serverUnix, localUnix uint32) *Builder {
	return b.AddItem(Item{Time: t, Value: int32(serverUnix), BuffDmg: int32(localUnix), StateChange: 10})
}

// PointOfView appends the point-of-view state change for the given agent.
func (b *Builder) PointOfView(t uint64, address uint64) *Builder {
	return b.AddItem(Item{Time: t, Src: address, StateChange: 13})
}

// PhysicalDamage appends a direct hit.
func (b *Builder) PhysicalDamage(t uint64, src, dst uint64, skillID uint32, damage int32) *Builder {
	return b.AddItem(Item{Time: t, Src: src, Dst: dst, SkillID: skillID, Value: damage})
}

// BuffDamage appends a condition tick.
func (b *Builder) BuffDamage(t uint64, src, dst uint64, buffID uint32, damage int32) *Builder {
	return b.AddItem(Item{Time: t, Src: src, Dst: dst, SkillID: buffID, Buff: 1, BuffDmg: damage})
}

// BuffApply appends one buff stack application to dst.
func (b *Builder) BuffApply(t uint64, src, dst uint64, buffID uint32, durationMS int32) *Builder {
	return b.AddItem(Item{Time: t, Src: src, Dst: dst, SkillID: buffID, Buff: 1, Value: durationMS})
}

// BuffRemoveAll appends a remove-all for the buff on src.
func (b *Builder) BuffRemoveAll(t uint64, agentAddr uint64, buffID uint32, stacks int) *Builder {
	return b.AddItem(Item{Time: t, Src: agentAddr, SkillID: buffID, Buff: 1, BuffRemove: 1, Result: uint8(stacks)})
}

// BuffRemoveSingle appends a single-stack removal for the buff on src.
func (b *Builder) BuffRemoveSingle(t uint64, agentAddr uint64, buffID uint32) *Builder {
	return b.AddItem(Item{Time: t, Src: agentAddr, SkillID: buffID, Buff: 1, BuffRemove: 2})
}

// Cast appends a skill activation start.
func (b *Builder) Cast(t uint64, src uint64, skillID uint32) *Builder {
	return b.AddItem(Item{Time: t, Src: src, SkillID: skillID, Activation: 1})
}

// Downed appends a change-down state change.
func (b *Builder) Downed(t uint64, address uint64) *Builder {
	return b.AddItem(Item{Time: t, Src: address, StateChange: 5})
}

// Dead appends a change-dead state change.
func (b *Builder) Dead(t uint64, address uint64) *Builder {
	return b.AddItem(Item{Time: t, Src: address, StateChange: 4})
}

// Despawn appends a despawn state change.
func (b *Builder) Despawn(t uint64, address uint64) *Builder {
	return b.AddItem(Item{Time: t, Src: address, StateChange: 7})
}

// HealthUpdate appends a health update; percent is in [0,100].
func (b *Builder) HealthUpdate(t uint64, address uint64, percent float64) *Builder {
	return b.AddItem(Item{Time: t, Src: address, Dst: uint64(percent * 100), StateChange: 8})
}

// UnknownState appends an item with an unrecognized state-change code.
func (b *Builder) UnknownState(t uint64, code uint8) *Builder {
	return b.AddItem(Item{Time: t, StateChange: code})
}

func (b *Builder) instID(address uint64) uint16 {
	for _, a := range b.agents {
		if a.address == address {
			return a.instID
		}
	}
	return 0
}

// Bytes serializes the fixture as a revision 1 EVTC stream.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 0, headerSize+8+len(b.agents)*agentSize+len(b.skills)*skillSize+len(b.items)*itemSize)

	header := make([]byte, headerSize)
	copy(header, b.BuildDate)
	header[12] = 1
	binary.LittleEndian.PutUint16(header[13:15], b.BossID)
	out = append(out, header...)

	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.agents)))
	for _, a := range b.agents {
		rec := make([]byte, agentSize)
		binary.LittleEndian.PutUint64(rec[0:8], a.address)
		binary.LittleEndian.PutUint32(rec[8:12], a.profession)
		binary.LittleEndian.PutUint32(rec[12:16], a.isElite)
		binary.LittleEndian.PutUint16(rec[16:18], uint16(a.toughness))
		copy(rec[28:92], a.name)
		out = append(out, rec...)
	}

	out = binary.LittleEndian.AppendUint32(out, uint32(len(b.skills)))
	for _, s := range b.skills {
		rec := make([]byte, skillSize)
		binary.LittleEndian.PutUint32(rec[0:4], uint32(s.id))
		copy(rec[4:68], s.name)
		out = append(out, rec...)
	}

	for _, it := range b.items {
		out = append(out, b.encodeItem(it)...)
	}
	return out
}

func (b *Builder) encodeItem(it Item) []byte {
	rec := make([]byte, itemSize)
	binary.LittleEndian.PutUint64(rec[0:8], it.Time)
	binary.LittleEndian.PutUint64(rec[8:16], it.Src)
	binary.LittleEndian.PutUint64(rec[16:24], it.Dst)
	binary.LittleEndian.PutUint32(rec[24:28], uint32(it.Value))
	binary.LittleEndian.PutUint32(rec[28:32], uint32(it.BuffDmg))
	binary.LittleEndian.PutUint32(rec[36:40], it.SkillID)
	binary.LittleEndian.PutUint16(rec[40:42], b.instID(it.Src))
	binary.LittleEndian.PutUint16(rec[42:44], b.instID(it.Dst))
	if master, ok := b.masters[it.Src]; ok {
		binary.LittleEndian.PutUint16(rec[44:46], b.instID(master))
	}
	rec[48] = it.IFF
	rec[49] = it.Buff
	rec[50] = it.Result
	rec[51] = it.Activation
	rec[52] = it.BuffRemove
	rec[56] = it.StateChange
	return rec
}
