package stats

import (
	"sort"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// simulateBuffs replays apply/remove events in time order to produce a
// per-agent stack-count timeline for each tracked buff, from encounter
// start to fightEnd. Stack intensity is capped at the buff's configured
// maximum. Buff ids seen in the stream but not tracked are collected into
// Untracked rather than simulated; full simulation of every buff in a log
// costs far more than the supported analytics need.
func simulateBuffs(log *model.Log, tracked []model.TrackedBuff, fightEnd uint64) model.BuffSimulationResult {
	res := model.BuffSimulationResult{
		Timelines: make(map[int32]model.BuffTimeline, len(tracked)),
	}
	caps := make(map[int32]int, len(tracked))
	for _, tb := range tracked {
		caps[tb.ID] = tb.MaxStacks
		res.Timelines[tb.ID] = make(model.BuffTimeline)
	}

	untracked := make(map[int32]bool)
	// stacks[buff][agent] is the current simulated stack count.
	stacks := make(map[int32]map[uint64]int, len(tracked))
	for _, tb := range tracked {
		stacks[tb.ID] = make(map[uint64]int)
	}

	record := func(buffID int32, agent uint64, t uint64, n int) {
		tl := res.Timelines[buffID]
		samples := tl[agent]
		if len(samples) > 0 && samples[len(samples)-1].Stacks == n {
			return
		}
		tl[agent] = append(samples, model.StackSample{Time: t, Stacks: n})
	}

	for _, ev := range log.Events {
		if ev.Time() > fightEnd {
			break
		}
		switch e := ev.(type) {
		case event.BuffApply:
			limit, ok := caps[e.BuffID]
			if !ok {
				untracked[e.BuffID] = true
				continue
			}
			cur := stacks[e.BuffID]
			n := cur[e.Dst] + 1
			if n > limit {
				n = limit
			}
			cur[e.Dst] = n
			record(e.BuffID, e.Dst, e.At, n)
		case event.BuffRemove:
			_, ok := caps[e.BuffID]
			if !ok {
				untracked[e.BuffID] = true
				continue
			}
			cur := stacks[e.BuffID]
			n := cur[e.Src]
			switch e.Removal {
			case event.RemoveAll:
				n = 0
			default:
				n -= e.Stacks
				if n < 0 {
					n = 0
				}
			}
			cur[e.Src] = n
			record(e.BuffID, e.Src, e.At, n)
		}
	}

	// Close every timeline at fight end so uptime integrals have a final
	// bound. A sample already sitting at fight end keeps its stack count;
	// appending a zero would duplicate the timestamp.
	for _, tl := range res.Timelines {
		for agent, samples := range tl {
			last := samples[len(samples)-1]
			if last.Stacks == 0 || last.Time == fightEnd {
				continue
			}
			tl[agent] = append(samples, model.StackSample{Time: fightEnd, Stacks: 0})
		}
	}

	for id := range untracked {
		res.Untracked = append(res.Untracked, id)
	}
	sort.Slice(res.Untracked, func(i, j int) bool { return res.Untracked[i] < res.Untracked[j] })
	return res
}
