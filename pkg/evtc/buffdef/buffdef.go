// Package buffdef loads tracked-buff definition files.
//
// A definition file is YAML selecting which buffs the statistics engine
// simulates and the stack cap for each:
//
//	version: 1
//	buffs:
//	  - id: 740
//	    name: Might
//	    max_stacks: 25
//	  - id: 738
//	    name: Vulnerability
//	    max_stacks: 25
//
// Buffs absent from the file are excluded from simulation and reported as
// untracked in the statistics snapshot.
package buffdef

import "github.com/evtclog/evtclog-go/pkg/evtc/model"

// File is a parsed tracked-buff definition file.
type File struct {
	// Version is the file format version. Only version 1 is supported.
	Version int `yaml:"version"`
	// Buffs lists the tracked buff definitions.
	Buffs []Definition `yaml:"buffs"`
}

// Definition is one tracked buff.
type Definition struct {
	// ID is the buff's skill id.
	ID int32 `yaml:"id"`
	// Name is a display name for the buff.
	Name string `yaml:"name"`
	// MaxStacks caps the simulated stack intensity.
	MaxStacks int `yaml:"max_stacks"`
}

// Tracked converts the definitions into the statistics engine's
// tracked-buff configuration.
func (f *File) Tracked() []model.TrackedBuff {
	out := make([]model.TrackedBuff, 0, len(f.Buffs))
	for _, d := range f.Buffs {
		out = append(out, model.TrackedBuff{ID: d.ID, Name: d.Name, MaxStacks: d.MaxStacks})
	}
	return out
}
