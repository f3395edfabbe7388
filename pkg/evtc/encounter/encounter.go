// Package encounter classifies a built Log: difficulty mode, outcome, the
// ordered phase list, and the agents that count as important enemies.
//
// Classification is configured per encounter type. A registry maps boss
// species ids to configurations assembled from small strategy functions;
// unregistered ids fall back to a permissive default so every log, however
// unfamiliar, yields a best-effort Encounter.
package encounter

import (
	"io"
	"log/slog"

	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// ModeFunc determines the difficulty mode from the event stream.
type ModeFunc func(log *model.Log) model.Mode

// ResultFunc determines the outcome given the important enemies.
type ResultFunc func(log *model.Log, targets []*model.Agent) model.Result

// PhaseFunc splits the fight into ordered, non-overlapping phases.
// Phase names must be deterministic for a given log.
type PhaseFunc func(log *model.Log, targets []*model.Agent) []*model.Phase

// EnemyFunc selects the important enemies (bosses/targets).
type EnemyFunc func(log *model.Log) []*model.Agent

// StepFunc is a per-encounter normalization pass applied to the log before
// classification proper. Steps must be idempotent and must not reorder
// events.
type StepFunc func(log *model.Log)

// Config is one encounter type's classification strategy set. Nil fields
// fall back to the corresponding default strategy.
type Config struct {
	Name    string
	Mode    ModeFunc
	Result  ResultFunc
	Phases  PhaseFunc
	Enemies EnemyFunc
	Steps   []StepFunc
}

func (c Config) withDefaults() Config {
	if c.Mode == nil {
		c.Mode = UnknownMode
	}
	if c.Result == nil {
		c.Result = GenericResult
	}
	if c.Phases == nil {
		c.Phases = SinglePhase("Full Fight")
	}
	if c.Enemies == nil {
		c.Enemies = BossEnemies
	}
	return c
}

// Classify runs the registered (or fallback) configuration for the log's
// boss id and attaches the resulting Encounter to the log.
func Classify(log *model.Log, reg *Registry, logger *slog.Logger) *model.Encounter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if reg == nil {
		reg = DefaultRegistry()
	}

	cfg, registered := reg.Lookup(log.BossID)
	if !registered {
		logger.Debug("no configuration for boss id; using fallback", "boss_id", log.BossID)
	}
	cfg = cfg.withDefaults()

	for _, step := range cfg.Steps {
		step(log)
	}

	targets := cfg.Enemies(log)
	enc := &model.Encounter{
		Name:    cfg.Name,
		Mode:    cfg.Mode(log),
		Result:  cfg.Result(log, targets),
		Phases:  cfg.Phases(log, targets),
		Targets: targets,
	}
	if enc.Name == "" {
		enc.Name = fallbackName(log, targets)
	}
	log.Encounter = enc
	return enc
}

func fallbackName(log *model.Log, targets []*model.Agent) string {
	for _, t := range targets {
		if t.Name != "" {
			return t.Name
		}
	}
	return "Unknown Encounter"
}

// collectEvents returns the events whose time falls in [start, end).
func collectEvents(log *model.Log, start, end uint64) []event.Event {
	var out []event.Event
	for _, ev := range log.Events {
		t := ev.Time()
		if t >= start && t < end {
			out = append(out, ev)
		}
	}
	return out
}

// phaseTargets filters targets to those observed inside the window.
func phaseTargets(targets []*model.Agent, start, end uint64) []*model.Agent {
	var out []*model.Agent
	for _, t := range targets {
		if t.FirstAware < end && t.LastAware >= start {
			out = append(out, t)
		}
	}
	return out
}
