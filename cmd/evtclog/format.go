package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/evtclog/evtclog-go/pkg/evtc"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// summary is the JSON shape emitted per log: one line, self-contained.
type summary struct {
	File      string          `json:"file"`
	Fight     string          `json:"fight"`
	Result    string          `json:"result"`
	Mode      string          `json:"mode"`
	Duration  float64         `json:"duration_seconds"`
	StartTime string          `json:"start_time"`
	Recorder  string          `json:"recorded_by"`
	Phases    []string        `json:"phases"`
	Players   []playerSummary `json:"players"`
}

type playerSummary struct {
	Account string  `json:"account"`
	DPS     float64 `json:"dps"`
	Power   int64   `json:"power_damage"`
	Condi   int64   `json:"condition_damage"`
	Downs   int     `json:"downs"`
	Deaths  int     `json:"deaths"`
}

// OutputStatistics writes one log's statistics in the given format.
func OutputStatistics(format, path string, stats *evtc.LogStatistics, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(path, stats, out)
	case "pretty":
		return OutputPretty(path, stats, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes a one-line JSON summary.
func OutputJSON(path string, stats *evtc.LogStatistics, out io.Writer) error {
	data, err := json.Marshal(buildSummary(path, stats))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes a human-readable summary.
func OutputPretty(path string, stats *evtc.LogStatistics, out io.Writer) error {
	s := buildSummary(path, stats)
	if _, err := fmt.Fprintf(out, "%s\n  %s: %s (%s), %.1fs, recorded by %s\n",
		s.File, s.Fight, s.Result, s.Mode, s.Duration, s.Recorder); err != nil {
		return err
	}
	if len(s.Phases) > 0 {
		if _, err := fmt.Fprintf(out, "  phases: %d\n", len(s.Phases)); err != nil {
			return err
		}
	}
	for _, p := range s.Players {
		if _, err := fmt.Fprintf(out, "  %-24s %8.0f dps  (%d power, %d condi)  downs=%d deaths=%d\n",
			p.Account, p.DPS, p.Power, p.Condi, p.Downs, p.Deaths); err != nil {
			return err
		}
	}
	return nil
}

func buildSummary(path string, stats *evtc.LogStatistics) summary {
	s := summary{
		File:      path,
		Fight:     stats.FightName,
		Result:    stats.Result.String(),
		Mode:      stats.Mode.String(),
		Duration:  float64(stats.DurationMS) / 1000,
		StartTime: stats.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		Recorder:  stats.RecordedBy,
	}
	for _, ps := range stats.PhaseStats {
		s.Phases = append(s.Phases, ps.Phase.Name)
	}

	for addr, pd := range stats.PlayerData {
		dd := stats.FullFightDamage.ByAgent[addr]
		s.Players = append(s.Players, playerSummary{
			Account: pd.Account,
			DPS:     dd.DPS(),
			Power:   dd.Power,
			Condi:   dd.Condition,
			Downs:   pd.Downs,
			Deaths:  pd.Deaths,
		})
	}
	// Sort for deterministic output.
	sort.Slice(s.Players, func(i, j int) bool { return s.Players[i].Account < s.Players[j].Account })
	return s
}
