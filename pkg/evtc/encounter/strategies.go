package encounter

import (
	"fmt"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// minEnemyPresenceMS is the minimum observed lifespan for a non-player
// agent to count as an enemy under the fallback selector. It filters out
// decorative agents that flicker into tracking for a moment.
const minEnemyPresenceMS = 1000

// UnknownMode always reports ModeUnknown. It is the fallback for
// unregistered encounters.
func UnknownMode(*model.Log) model.Mode { return model.ModeUnknown }

// ModeFromSkillCast reports mode when any agent casts the marker skill,
// normal otherwise. Challenge-mode variants of several encounters announce
// themselves with a difficulty-indicating cast.
func ModeFromSkillCast(skillID int32, mode model.Mode) ModeFunc {
	return func(log *model.Log) model.Mode {
		for _, ev := range log.Events {
			if cast, ok := ev.(event.SkillCast); ok && cast.SkillID == skillID {
				return mode
			}
		}
		return model.ModeNormal
	}
}

// ModeFromBuff reports mode when the marker buff is ever applied, normal
// otherwise. Used for the emboldened easy-mode buff.
func ModeFromBuff(buffID int32, mode model.Mode) ModeFunc {
	return func(log *model.Log) model.Mode {
		for _, ev := range log.Events {
			if app, ok := ev.(event.BuffApply); ok && app.BuffID == buffID {
				return mode
			}
		}
		return model.ModeNormal
	}
}

// ModeFromToughness reports challenge mode when the primary target's
// toughness rating meets the threshold. Challenge variants of some bosses
// are distinguishable only by inflated agent attributes.
func ModeFromToughness(species uint16, threshold int16) ModeFunc {
	return func(log *model.Log) model.Mode {
		for _, a := range log.Agents {
			if a.Kind == model.AgentNPC && a.SpeciesID == species && a.Toughness >= threshold {
				return model.ModeChallenge
			}
		}
		return model.ModeNormal
	}
}

// GenericResult is the fallback outcome rule: success when every important
// enemy reached a death or despawn event, failure when the recording player
// died while targets remain, unknown otherwise.
func GenericResult(log *model.Log, targets []*model.Agent) model.Result {
	if len(targets) == 0 {
		return model.ResultUnknown
	}
	gone := make(map[uint64]bool)
	povDead := false
	for _, ev := range log.Events {
		switch e := ev.(type) {
		case event.Dead:
			gone[e.Agent] = true
			if log.PointOfView != nil && e.Agent == log.PointOfView.Address {
				povDead = true
			}
		case event.Despawn:
			gone[e.Agent] = true
		}
	}
	allGone := true
	for _, t := range targets {
		if !gone[t.Address] {
			allGone = false
			break
		}
	}
	if allGone {
		return model.ResultSuccess
	}
	if povDead {
		return model.ResultFailure
	}
	return model.ResultUnknown
}

// ResultFromReward reports success when a reward event is present, falling
// back to GenericResult otherwise. Several encounters emit a reward chest
// only on a successful clear.
func ResultFromReward(log *model.Log, targets []*model.Agent) model.Result {
	for _, ev := range log.Events {
		if _, ok := ev.(event.Reward); ok {
			return model.ResultSuccess
		}
	}
	return GenericResult(log, targets)
}

// SinglePhase spans the whole fight as one phase with the given name.
func SinglePhase(name string) PhaseFunc {
	return func(log *model.Log, targets []*model.Agent) []*model.Phase {
		start, end := log.StartMS, log.EndMS
		return []*model.Phase{{
			Name:    name,
			Start:   start,
			End:     end,
			Events:  collectEvents(log, start, end),
			Targets: phaseTargets(targets, start, end),
		}}
	}
}

// PhasesFromHealth splits the fight at the times the primary target's
// health first drops to each threshold fraction, in descending order.
// Phases are named "Phase 1".."Phase N" deterministically; thresholds never
// reached produce no further phases, and a crossing that coincides with the
// fight boundary produces no zero-length phase.
func PhasesFromHealth(species uint16, thresholds ...float64) PhaseFunc {
	return func(log *model.Log, targets []*model.Agent) []*model.Phase {
		var primary *model.Agent
		for _, t := range targets {
			if t.SpeciesID == species {
				primary = t
				break
			}
		}
		if primary == nil {
			return SinglePhase("Full Fight")(log, targets)
		}

		bounds := []uint64{log.StartMS}
		next := 0
		for _, ev := range log.Events {
			if next >= len(thresholds) {
				break
			}
			hu, ok := ev.(event.HealthUpdate)
			if !ok || hu.Agent != primary.Address {
				continue
			}
			if hu.Health <= thresholds[next] {
				bounds = append(bounds, hu.At)
				next++
			}
		}
		bounds = append(bounds, log.EndMS)

		phases := make([]*model.Phase, 0, len(bounds)-1)
		n := 0
		for i := 0; i+1 < len(bounds); i++ {
			start, end := bounds[i], bounds[i+1]
			if end <= start {
				continue
			}
			n++
			phases = append(phases, &model.Phase{
				Name:    fmt.Sprintf("Phase %d", n),
				Start:   start,
				End:     end,
				Events:  collectEvents(log, start, end),
				Targets: phaseTargets(targets, start, end),
			})
		}
		return phases
	}
}

// PhasesFromBuff splits the fight around windows where the primary target
// holds the given buff, alternating "Phase N" and "Split N" windows. Used
// for encounters whose sub-phases are marked by an invulnerability buff.
func PhasesFromBuff(species uint16, buffID int32) PhaseFunc {
	return func(log *model.Log, targets []*model.Agent) []*model.Phase {
		var primary *model.Agent
		for _, t := range targets {
			if t.SpeciesID == species {
				primary = t
				break
			}
		}
		if primary == nil {
			return SinglePhase("Full Fight")(log, targets)
		}

		type window struct {
			start, end uint64
			split      bool
		}
		var windows []window
		cur := window{start: log.StartMS}
		for _, ev := range log.Events {
			switch e := ev.(type) {
			case event.BuffApply:
				if e.BuffID == buffID && e.Dst == primary.Address && !cur.split {
					cur.end = e.At
					windows = append(windows, cur)
					cur = window{start: e.At, split: true}
				}
			case event.BuffRemove:
				if e.BuffID == buffID && e.Src == primary.Address && cur.split {
					cur.end = e.At
					windows = append(windows, cur)
					cur = window{start: e.At}
				}
			}
		}
		cur.end = log.EndMS
		windows = append(windows, cur)

		var phases []*model.Phase
		nPhase, nSplit := 0, 0
		for _, w := range windows {
			if w.end <= w.start {
				continue
			}
			var name string
			if w.split {
				nSplit++
				name = fmt.Sprintf("Split %d", nSplit)
			} else {
				nPhase++
				name = fmt.Sprintf("Phase %d", nPhase)
			}
			phases = append(phases, &model.Phase{
				Name:    name,
				Start:   w.start,
				End:     w.end,
				Events:  collectEvents(log, w.start, w.end),
				Targets: phaseTargets(targets, w.start, w.end),
			})
		}
		return phases
	}
}

// BossEnemies is the fallback enemy selector: the agent matching the
// header's boss id if present, otherwise every non-player, non-gadget
// agent with nontrivial presence.
func BossEnemies(log *model.Log) []*model.Agent {
	var boss []*model.Agent
	for _, a := range log.Agents {
		if a.Kind == model.AgentNPC && a.SpeciesID == log.BossID {
			boss = append(boss, a)
		}
	}
	if len(boss) > 0 {
		return boss
	}
	var out []*model.Agent
	for _, a := range log.Agents {
		if a.Kind != model.AgentNPC {
			continue
		}
		if a.LastAware-a.FirstAware < minEnemyPresenceMS {
			continue
		}
		out = append(out, a)
	}
	return out
}

// EnemiesBySpecies selects agents of the given species ids, in id order.
func EnemiesBySpecies(species ...uint16) EnemyFunc {
	return func(log *model.Log) []*model.Agent {
		var out []*model.Agent
		for _, id := range species {
			for _, a := range log.Agents {
				if a.Kind != model.AgentPlayer && a.SpeciesID == id {
					out = append(out, a)
				}
			}
		}
		return out
	}
}

// RetagKind reclassifies agents of one species to the given kind. Some
// fights mis-tag attackable structures as gadgets or vice versa.
// Idempotent; touches no events.
func RetagKind(species uint16, kind model.AgentKind) StepFunc {
	return func(log *model.Log) {
		for _, a := range log.Agents {
			if a.Kind != model.AgentPlayer && a.SpeciesID == species {
				a.Kind = kind
			}
		}
	}
}

// MergeSplitBoss redirects duplicate agents of a species to the first one
// by setting their Master link, so attribution resolves every copy's
// actions to a single boss identity. Event order is untouched. Idempotent:
// re-running finds the masters already set.
func MergeSplitBoss(species uint16) StepFunc {
	return func(log *model.Log) {
		var primary *model.Agent
		for _, a := range log.Agents {
			if a.Kind != model.AgentNPC || a.SpeciesID != species {
				continue
			}
			if primary == nil {
				primary = a
				continue
			}
			if a.Master == nil {
				a.Master = primary
			}
		}
	}
}
