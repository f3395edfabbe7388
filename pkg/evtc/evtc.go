package evtc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/evtclog/evtclog-go/internal/builder"
	"github.com/evtclog/evtclog-go/internal/decoder"
	"github.com/evtclog/evtclog-go/internal/stats"
	"github.com/evtclog/evtclog-go/pkg/evtc/encounter"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

// Convenience aliases so callers can stay on this package for the common
// types. The full model lives in pkg/evtc/model.
type (
	Log           = model.Log
	LogStatistics = model.LogStatistics
	Encounter     = model.Encounter
	Phase         = model.Phase
	Agent         = model.Agent
	Player        = model.Player
	Skill         = model.Skill
	TrackedBuff   = model.TrackedBuff
)

// MaxFileSize is the maximum accepted log file size. Real logs run a few
// megabytes; the limit guards ParseFile against reading unbounded streams.
const MaxFileSize = 256 * 1024 * 1024

// ParseBytes decodes an EVTC byte stream, builds the typed Log, and
// attaches the encounter classification.
//
// Decode anomalies (unknown item kinds, truncated trailing records, table
// misses) are absorbed into placeholders, opaque events, and the Log's
// Diagnostics counters. The returned error is non-nil only for fatal
// failures: a stream too short for its declared structure, or a log
// missing its point-of-view or log-start event.
func ParseBytes(data []byte, opts ...Option) (*Log, error) {
	cfg := applyOptions(opts)

	raw, err := decoder.Decode(data, cfg.logger)
	if err != nil {
		return nil, err
	}
	log, err := builder.Build(raw, cfg.logger)
	if err != nil {
		return nil, err
	}
	encounter.Classify(log, cfg.registry, cfg.logger)
	return log, nil
}

// ParseFile reads and parses one log file. Only regular files up to
// MaxFileSize are accepted.
func ParseFile(path string, opts ...Option) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("log file must be a regular file")
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("log file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("log file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}
	return ParseBytes(data, opts...)
}

// ComputeStatistics derives the immutable analytics snapshot from a parsed
// log. It is a pure function of the log and the options: identical inputs
// always yield an identical snapshot.
func ComputeStatistics(log *Log, opts ...Option) *LogStatistics {
	cfg := applyOptions(opts)
	return stats.Compute(log, stats.Options{
		TrackedBuffs: cfg.trackedBuffs,
		Metadata:     cfg.metadata,
		Logger:       cfg.logger,
	})
}

// Analyze runs the full pipeline: bytes to statistics snapshot.
func Analyze(data []byte, opts ...Option) (*LogStatistics, error) {
	log, err := ParseBytes(data, opts...)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(log, opts...), nil
}

// AnalyzeFile runs the full pipeline on one log file.
func AnalyzeFile(path string, opts ...Option) (*LogStatistics, error) {
	log, err := ParseFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(log, opts...), nil
}
