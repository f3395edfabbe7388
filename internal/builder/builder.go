// Package builder resolves the decoder's raw tables into the typed Log:
// agents with ownership links, skills, and the ordered event stream.
//
// The builder absorbs anomalies rather than failing: agents or skills
// referenced by combat items but absent from the tables become minimal
// placeholders, and items whose discriminators it does not recognize
// become opaque events carrying the raw record. Only a missing
// point-of-view or log-start event is fatal.
package builder

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/evtclog/evtclog-go/internal/decoder"
	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

const gadgetMask = 0xFFFF0000

// Build produces a typed Log from raw decoded tables. A nil logger
// discards diagnostics.
func Build(raw *decoder.RawLog, logger *slog.Logger) (*model.Log, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b := &build{
		raw:       raw,
		logger:    logger,
		byAddress: make(map[uint64]*model.Agent, len(raw.Agents)),
		byInstID:  make(map[uint16]*model.Agent, len(raw.Agents)),
	}

	b.buildAgents()
	b.buildSkills()
	b.scanItems()
	b.resolveMasters()
	if err := b.buildEvents(); err != nil {
		return nil, err
	}
	return b.log, nil
}

type build struct {
	raw    *decoder.RawLog
	logger *slog.Logger
	log    *model.Log

	agents    []*model.Agent
	players   []*model.Player
	skills    map[int32]*model.Skill
	byAddress map[uint64]*model.Agent
	byInstID  map[uint16]*model.Agent

	diag model.Diagnostics
}

func (b *build) buildAgents() {
	for _, ra := range b.raw.Agents {
		a := &model.Agent{
			Address:       ra.Address,
			Toughness:     ra.Toughness,
			Concentration: ra.Concentration,
			Healing:       ra.Healing,
			Condition:     ra.Condition,
		}
		if ra.IsElite == 0xFFFFFFFF {
			if ra.Profession&gadgetMask == gadgetMask {
				a.Kind = model.AgentGadget
			} else {
				a.Kind = model.AgentNPC
			}
			a.SpeciesID = uint16(ra.Profession)
			a.Name = nameField(ra.Name[:], 0)
		} else {
			a.Kind = model.AgentPlayer
			a.Team = model.TeamFriend
			a.Name = nameField(ra.Name[:], 0)
			p := &model.Player{
				Agent:      a,
				Account:    strings.TrimPrefix(nameField(ra.Name[:], 1), ":"),
				Subgroup:   subgroup(nameField(ra.Name[:], 2)),
				Profession: ra.Profession,
				Elite:      ra.IsElite,
			}
			b.players = append(b.players, p)
		}
		b.agents = append(b.agents, a)
		b.byAddress[a.Address] = a
	}
}

func (b *build) buildSkills() {
	b.skills = make(map[int32]*model.Skill, len(b.raw.Skills))
	for _, rs := range b.raw.Skills {
		b.skills[rs.ID] = &model.Skill{ID: rs.ID, Name: rs.Name}
	}
}

// scanItems assigns instance ids, tightens awareness bounds, infers NPC
// allegiance, and synthesizes placeholders for table-less references.
func (b *build) scanItems() {
	for _, item := range b.raw.Items {
		switch item.IsStateChange {
		case decoder.StateNone:
			src := b.agentFor(item.SrcAgent)
			dst := b.agentFor(item.DstAgent)
			if src != nil {
				b.observe(src, item.SrcInstID, item.Time)
				if src.Team == model.TeamUnknown {
					src.Team = teamFromIFF(item.IFF)
				}
			}
			if dst != nil {
				b.observe(dst, item.DstInstID, item.Time)
			}
			if id := int32(item.SkillID); b.skills[id] == nil {
				b.skills[id] = &model.Skill{ID: id, Placeholder: true}
				b.diag.PlaceholderSkills++
			}
		case decoder.StateChangeDead, decoder.StateChangeDown, decoder.StateSpawn,
			decoder.StateDespawn, decoder.StateHealthUpdate, decoder.StatePointOfView,
			decoder.StateReward:
			if a := b.agentFor(item.SrcAgent); a != nil {
				b.observe(a, item.SrcInstID, item.Time)
			}
		}
	}
}

// agentFor resolves an address to its agent, synthesizing a placeholder for
// addresses absent from the agent table. Address 0 means "no agent".
func (b *build) agentFor(address uint64) *model.Agent {
	if address == 0 {
		return nil
	}
	if a, ok := b.byAddress[address]; ok {
		return a
	}
	a := &model.Agent{Address: address, Kind: model.AgentUnknown}
	b.agents = append(b.agents, a)
	b.byAddress[address] = a
	b.diag.PlaceholderAgents++
	b.logger.Debug("synthesized placeholder agent", "address", address)
	return a
}

func (b *build) observe(a *model.Agent, instID uint16, t uint64) {
	if instID != 0 && a.InstID == 0 {
		a.InstID = instID
		b.byInstID[instID] = a
	}
	if a.FirstAware == 0 || t < a.FirstAware {
		a.FirstAware = t
	}
	if t > a.LastAware {
		a.LastAware = t
	}
}

// resolveMasters links minions to their controlling agents via the master
// instance ids carried on combat items. A bounded walk in Agent.Owner
// guards against cycles regardless, but obviously self-referential links
// are dropped here.
func (b *build) resolveMasters() {
	for _, item := range b.raw.Items {
		if item.IsStateChange != decoder.StateNone || item.SrcMasterInstID == 0 {
			continue
		}
		minion := b.byAddress[item.SrcAgent]
		master := b.byInstID[item.SrcMasterInstID]
		if minion == nil || master == nil || minion == master {
			continue
		}
		if minion.Master == nil {
			minion.Master = master
		}
	}
}

func (b *build) buildEvents() error {
	events := make([]event.Event, 0, len(b.raw.Items))
	var (
		pov       *model.Agent
		start     *event.LogStart
		povSeen   int
		startSeen int
	)

	for _, item := range b.raw.Items {
		ev := b.mapItem(item)
		if ev == nil {
			continue
		}
		switch e := ev.(type) {
		case event.PointOfView:
			povSeen++
			if povSeen > 1 {
				b.diag.DuplicateSingletons++
				b.logger.Warn("duplicate point-of-view event; keeping first", "time", e.At)
				continue
			}
			pov = b.agentFor(e.Agent)
		case event.LogStart:
			startSeen++
			if startSeen > 1 {
				b.diag.DuplicateSingletons++
				b.logger.Warn("duplicate log-start event; keeping first", "time", e.At)
				continue
			}
			ls := e
			start = &ls
		}
		events = append(events, ev)
	}

	if pov == nil {
		return &MissingSingletonError{Missing: "point-of-view"}
	}
	if start == nil {
		return &MissingSingletonError{Missing: "log-start"}
	}

	// Total order by time; sort stability preserves original record order
	// for ties.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time() < events[j].Time()
	})

	log := &model.Log{
		Revision:    b.raw.Header.Revision,
		BuildDate:   b.raw.Header.BuildDate,
		BossID:      b.raw.Header.BossID,
		Events:      events,
		Agents:      b.agents,
		Players:     b.players,
		Skills:      b.skills,
		PointOfView: pov,
		StartTime:   time.Unix(int64(start.ServerUnix), 0).UTC(),
		Diagnostics: b.diag,
	}
	log.Diagnostics.TruncatedBytes = b.raw.Diagnostics.TruncatedBytes
	if len(events) > 0 {
		log.StartMS = events[0].Time()
		log.EndMS = events[len(events)-1].Time()
	}
	b.log = log
	return nil
}

// mapItem converts one raw combat item into its typed event. Anything not
// matching a known mapping becomes an opaque Unknown event carrying the raw
// record unchanged.
func (b *build) mapItem(item decoder.RawCombatItem) event.Event {
	base := event.Base{At: item.Time}

	if item.IsStateChange != decoder.StateNone {
		switch item.IsStateChange {
		case decoder.StateChangeDead:
			return event.Dead{Base: base, Agent: item.SrcAgent}
		case decoder.StateChangeDown:
			return event.Downed{Base: base, Agent: item.SrcAgent}
		case decoder.StateSpawn:
			return event.Spawn{Base: base, Agent: item.SrcAgent}
		case decoder.StateDespawn:
			return event.Despawn{Base: base, Agent: item.SrcAgent}
		case decoder.StateHealthUpdate:
			return event.HealthUpdate{Base: base, Agent: item.SrcAgent, Health: float64(item.DstAgent) / 10000}
		case decoder.StateLogStart:
			return event.LogStart{Base: base, ServerUnix: uint32(item.Value), LocalUnix: uint32(item.BuffDmg)}
		case decoder.StateLogEnd:
			return event.LogEnd{Base: base, ServerUnix: uint32(item.Value), LocalUnix: uint32(item.BuffDmg)}
		case decoder.StatePointOfView:
			return event.PointOfView{Base: base, Agent: item.SrcAgent}
		case decoder.StateReward:
			return event.Reward{Base: base, Agent: item.SrcAgent, RewardID: item.DstAgent}
		case decoder.StateBuffInitial:
			return event.BuffApply{Base: base, Src: item.SrcAgent, Dst: item.SrcAgent,
				BuffID: int32(item.SkillID), DurationMS: item.Value}
		default:
			return b.unknown(base, item)
		}
	}

	if item.IsBuffRemove != 0 {
		rm := event.BuffRemove{Base: base, Src: item.SrcAgent, Dst: item.DstAgent, BuffID: int32(item.SkillID)}
		switch item.IsBuffRemove {
		case 1:
			rm.Removal = event.RemoveAll
			rm.Stacks = int(item.Result)
		case 2:
			rm.Removal = event.RemoveSingle
			rm.Stacks = 1
		case 3:
			rm.Removal = event.RemoveManual
			rm.Stacks = 1
		default:
			return b.unknown(base, item)
		}
		return rm
	}

	if item.IsActivation != 0 {
		cast := event.SkillCast{Base: base, Src: item.SrcAgent, SkillID: int32(item.SkillID)}
		switch item.IsActivation {
		case 1:
			cast.State = event.CastStarted
		case 2:
			cast.State = event.CastQuickness
		case 3:
			cast.State = event.CastCanceled
		case 4:
			cast.State = event.CastCompleted
		case 5:
			cast.State = event.CastReset
		default:
			return b.unknown(base, item)
		}
		return cast
	}

	if item.Buff != 0 {
		if item.BuffDmg != 0 {
			return event.BuffDamage{Base: base, Src: item.SrcAgent, Dst: item.DstAgent,
				SkillID: int32(item.SkillID), Damage: item.BuffDmg}
		}
		return event.BuffApply{Base: base, Src: item.SrcAgent, Dst: item.DstAgent,
			BuffID: int32(item.SkillID), DurationMS: item.Value}
	}

	if item.Result > uint8(event.HitDowning) {
		return b.unknown(base, item)
	}
	return event.PhysicalDamage{
		Base:     base,
		Src:      item.SrcAgent,
		Dst:      item.DstAgent,
		SkillID:  int32(item.SkillID),
		Damage:   item.Value,
		Result:   event.HitResult(item.Result),
		Moving:   item.IsMoving != 0,
		Flanking: item.IsFlanking != 0,
	}
}

func (b *build) unknown(base event.Base, item decoder.RawCombatItem) event.Event {
	b.diag.UnknownItems++
	return event.Unknown{Base: base, StateChange: item.IsStateChange, Raw: item.Raw}
}

func teamFromIFF(iff uint8) model.Team {
	switch iff {
	case 0:
		return model.TeamFriend
	case 1:
		return model.TeamFoe
	default:
		return model.TeamUnknown
	}
}

// nameField extracts the i-th NUL-separated field of an agent name block.
func nameField(block []byte, i int) string {
	s := string(block)
	for n := 0; n < i; n++ {
		idx := strings.IndexByte(s, 0)
		if idx < 0 {
			return ""
		}
		s = s[idx+1:]
	}
	if idx := strings.IndexByte(s, 0); idx >= 0 {
		s = s[:idx]
	}
	return s
}

func subgroup(field string) int {
	field = strings.TrimSpace(field)
	n := 0
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
