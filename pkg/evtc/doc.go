// Package evtc parses EVTC binary combat logs into a structured encounter
// model and computes analytics from it.
//
// This package allows you to:
//   - Decode raw EVTC bytes into agents, skills, and a typed event stream
//   - Classify the encounter (mode, result, phases, important enemies)
//   - Compute damage attribution, buff uptimes, and per-player rollups
//   - Build tools like report generators, uploaders, and log browsers
//
// # Basic Usage
//
// To analyze a log file end to end:
//
//	stats, err := evtc.AnalyzeFile("20240101-120000.evtc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %s in %.1fs\n", stats.FightName, stats.Result,
//	    float64(stats.DurationMS)/1000)
//	for addr, dd := range stats.FullFightDamage.ByAgent {
//	    fmt.Printf("  %d: %.0f DPS\n", addr, dd.DPS())
//	}
//
// To keep the intermediate model, run the stages separately:
//
//	log, err := evtc.ParseBytes(data)
//	if err != nil { ... }
//	stats := evtc.ComputeStatistics(log)
//
// The pipeline is strictly forward: bytes, then the typed Log, then the
// attached Encounter classification, then the LogStatistics snapshot. Each
// stage's output is frozen before the next runs, so values may be shared
// across goroutines, and independent logs can be processed in parallel
// with no coordination.
//
// # Configuration
//
// All configuration is passed explicitly through options:
//
//	stats := evtc.ComputeStatistics(log,
//	    evtc.WithTrackedBuffs(buffs...),
//	    evtc.WithSkillMetadata(lookup),
//	    evtc.WithLogger(logger),
//	)
//
// Unregistered encounter ids fall back to a permissive default
// configuration, so every decodable log yields a best-effort result.
//
// # Forward Compatibility
//
// Newer telemetry revisions add combat item kinds regularly. Unrecognized
// records are preserved as opaque events rather than failing the log, and
// agents or skills referenced only by events get placeholder entries. The
// Diagnostics counters on the Log report what was absorbed.
package evtc
