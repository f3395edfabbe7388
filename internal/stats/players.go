package stats

import (
	"sort"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// playerRollup counts downs and deaths per player and collects the skills
// each player cast or dealt physical damage with. Buff damage identifies
// only the applied condition, not the originating cast, so it never
// contributes to the used-skill set. With metadata present, used skills
// are additionally bucketed by slot, filtered to skills eligible for the
// player's profession so a coincidental id match from another profession's
// skill ticking through an ally cannot leak in.
func playerRollup(log *model.Log, meta model.SkillMetadata) map[uint64]*model.PlayerData {
	out := make(map[uint64]*model.PlayerData, len(log.Players))
	players := make(map[uint64]*model.Player, len(log.Players))
	used := make(map[uint64]map[int32]bool, len(log.Players))
	for _, p := range log.Players {
		out[p.Address] = &model.PlayerData{Account: p.Account}
		players[p.Address] = p
		used[p.Address] = make(map[int32]bool)
	}

	for _, ev := range log.Events {
		switch e := ev.(type) {
		case event.Downed:
			if pd, ok := out[e.Agent]; ok {
				pd.Downs++
			}
		case event.Dead:
			if pd, ok := out[e.Agent]; ok {
				pd.Deaths++
			}
		case event.SkillCast:
			if skills, ok := used[e.Src]; ok && e.State != event.CastCanceled && e.State != event.CastReset {
				skills[e.SkillID] = true
			}
		case event.PhysicalDamage:
			if skills, ok := used[e.Src]; ok {
				skills[e.SkillID] = true
			}
		}
	}

	for addr, skills := range used {
		pd := out[addr]
		p := players[addr]
		ids := make([]int32, 0, len(skills))
		for id := range skills {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			skill := log.Skills[id]
			if skill == nil {
				skill = &model.Skill{ID: id, Placeholder: true}
			}
			pd.SkillsUsed = append(pd.SkillsUsed, skill)

			if meta == nil {
				continue
			}
			info, ok := meta.Lookup(id)
			if !ok || !eligible(info, p.Profession) {
				continue
			}
			switch info.Slot {
			case model.SlotHeal:
				pd.HealSkills = append(pd.HealSkills, skill)
			case model.SlotUtility:
				pd.UtilitySkills = append(pd.UtilitySkills, skill)
			case model.SlotElite:
				pd.EliteSkills = append(pd.EliteSkills, skill)
			}
		}
	}
	return out
}

func eligible(info model.SkillInfo, profession uint32) bool {
	if len(info.Professions) == 0 {
		return true
	}
	for _, p := range info.Professions {
		if p == profession {
			return true
		}
	}
	return false
}
