// Package stats computes the analytics snapshot for a classified log:
// damage attribution with pet-to-owner redirection, tracked-buff stack
// simulation, per-player rollups, and raw event counts.
//
// Compute is a pure function of its inputs. All map iteration feeding
// ordered output goes through sorted keys, so identical inputs always
// produce an identical snapshot.
package stats

import (
	"io"
	"log/slog"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// Options configures one Compute run. All configuration is explicit; the
// engine assumes no ambient state.
type Options struct {
	// TrackedBuffs selects which buffs to simulate and their stack caps.
	// Buffs not listed are excluded from simulation and reported as
	// untracked.
	TrackedBuffs []model.TrackedBuff
	// Metadata is the optional external skill metadata lookup. Nil
	// disables only the metadata-dependent player fields.
	Metadata model.SkillMetadata
	Logger   *slog.Logger
}

// Compute assembles the immutable statistics snapshot for a classified log.
func Compute(log *model.Log, opts Options) *model.LogStatistics {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	enc := log.Encounter
	fightEnd := log.EndMS
	if enc != nil && len(enc.Phases) > 0 {
		fightEnd = enc.Phases[len(enc.Phases)-1].End
	}

	stats := &model.LogStatistics{
		StartTime:  log.StartTime,
		RecordedBy: recordedBy(log),
		Revision:   log.Revision,
		DurationMS: fightEnd - log.StartMS,
		Agents:     log.Agents,
		Skills:     log.Skills,
	}
	if enc != nil {
		stats.FightName = enc.Name
		stats.Result = enc.Result
		stats.Mode = enc.Mode
	}

	stats.FullFightDamage = damageData(log, log.Events, stats.DurationMS, nil)
	if enc != nil {
		stats.TargetDamage = targetDamage(log, log.Events, stats.DurationMS, enc.Targets)
		for _, phase := range enc.Phases {
			stats.PhaseStats = append(stats.PhaseStats, model.PhaseStats{
				Phase:        phase,
				Damage:       damageData(log, phase.Events, phase.DurationMS(), nil),
				TargetDamage: targetDamage(log, phase.Events, phase.DurationMS(), phase.Targets),
			})
		}
	}

	stats.BuffSimulation = simulateBuffs(log, opts.TrackedBuffs, fightEnd)
	stats.PlayerData = playerRollup(log, opts.Metadata)
	stats.EventCounts = countEvents(log.Events)

	logger.Debug("computed log statistics",
		"players", len(stats.PlayerData),
		"phases", len(stats.PhaseStats),
		"events", len(log.Events))
	return stats
}

func recordedBy(log *model.Log) string {
	if log.PointOfView == nil {
		return ""
	}
	for _, p := range log.Players {
		if p.Agent == log.PointOfView {
			return p.Account
		}
	}
	return log.PointOfView.Name
}

// countEvents tallies occurrences per event variant for diagnostics.
func countEvents(events []event.Event) map[event.Kind]int {
	counts := make(map[event.Kind]int)
	for _, ev := range events {
		counts[ev.Kind()]++
	}
	return counts
}
