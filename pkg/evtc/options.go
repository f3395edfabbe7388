package evtc

import (
	"io"
	"log/slog"

	"github.com/evtclog/evtclog-go/pkg/evtc/encounter"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// Option configures parsing and statistics computation using the
// functional options pattern.
type Option func(*config)

type config struct {
	logger       *slog.Logger
	registry     *encounter.Registry
	trackedBuffs []model.TrackedBuff
	metadata     model.SkillMetadata
}

func defaultConfig() *config {
	return &config{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry:     encounter.DefaultRegistry(),
		trackedBuffs: DefaultTrackedBuffs(),
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger for pipeline diagnostics. By default
// diagnostics are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry replaces the encounter configuration registry. The default
// registry carries the built-in encounter configurations plus the
// permissive fallback.
func WithRegistry(reg *encounter.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithTrackedBuffs replaces the set of buffs simulated by the statistics
// engine. Buffs not listed are reported as untracked, not simulated.
func WithTrackedBuffs(buffs ...model.TrackedBuff) Option {
	return func(c *config) {
		c.trackedBuffs = buffs
	}
}

// WithSkillMetadata supplies the optional external skill metadata lookup.
// Without it, only the metadata-dependent statistics fields (skill slot
// buckets) stay empty; nothing else changes.
func WithSkillMetadata(meta model.SkillMetadata) Option {
	return func(c *config) {
		c.metadata = meta
	}
}

// DefaultTrackedBuffs returns the stacking conditions simulated when
// WithTrackedBuffs is not given: might and vulnerability, both capped at
// 25 stacks.
func DefaultTrackedBuffs() []model.TrackedBuff {
	return []model.TrackedBuff{
		{ID: 740, Name: "Might", MaxStacks: 25},
		{ID: 738, Name: "Vulnerability", MaxStacks: 25},
	}
}
