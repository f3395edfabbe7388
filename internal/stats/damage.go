package stats

import (
	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// damageData aggregates damage over one event window. Attackers resolve to
// their ownership root, so pets and minions credit their controller. When
// target is non-nil only hits on that agent count. Every squad player is
// pre-seeded at zero so players who dealt no damage still appear. Damage
// with no resolvable attacker lands in Unattributed instead of being
// silently dropped.
func damageData(log *model.Log, events []event.Event, durationMS uint64, target *model.Agent) model.DamageMap {
	out := model.DamageMap{
		ByAgent:    make(map[uint64]model.DamageData, len(log.Players)),
		DurationMS: durationMS,
	}
	out.Unattributed.DurationMS = durationMS
	for _, p := range log.Players {
		out.ByAgent[p.Address] = model.DamageData{DurationMS: durationMS}
	}

	byAddr := make(map[uint64]*model.Agent, len(log.Agents))
	for _, a := range log.Agents {
		byAddr[a.Address] = a
	}

	add := func(srcAddr uint64, power, condition int64) {
		src := byAddr[srcAddr]
		if src == nil {
			out.Unattributed.Power += power
			out.Unattributed.Condition += condition
			return
		}
		owner := src.Owner()
		d := out.ByAgent[owner.Address]
		d.Power += power
		d.Condition += condition
		d.DurationMS = durationMS
		out.ByAgent[owner.Address] = d
	}

	for _, ev := range events {
		switch e := ev.(type) {
		case event.PhysicalDamage:
			if !e.Result.Dealt() || e.Damage <= 0 {
				continue
			}
			if target != nil && e.Dst != target.Address {
				continue
			}
			if e.Src == 0 {
				out.Unattributed.Power += int64(e.Damage)
				continue
			}
			add(e.Src, int64(e.Damage), 0)
		case event.BuffDamage:
			if e.Damage <= 0 {
				continue
			}
			if target != nil && e.Dst != target.Address {
				continue
			}
			if e.Src == 0 {
				out.Unattributed.Condition += int64(e.Damage)
				continue
			}
			add(e.Src, 0, int64(e.Damage))
		}
	}
	return out
}

// targetDamage repeats the aggregation restricted to each important enemy,
// keyed by the enemy's address. A merged split-boss copy redirects to its
// primary via the owner chain, so only attribution roots get an entry.
func targetDamage(log *model.Log, events []event.Event, durationMS uint64, targets []*model.Agent) map[uint64]model.DamageMap {
	out := make(map[uint64]model.DamageMap, len(targets))
	for _, t := range targets {
		if t.Master != nil {
			continue
		}
		out[t.Address] = damageData(log, events, durationMS, t)
	}
	return out
}
