package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

func TestDamageDataMerge(t *testing.T) {
	phase1 := model.DamageData{Power: 1000, Condition: 200, DurationMS: 30000}
	phase2 := model.DamageData{Power: 500, Condition: 100, DurationMS: 20000}
	full := model.DamageData{Power: 0, Condition: 0, DurationMS: 50000}

	merged := phase1.Merge(phase2)
	assert.Equal(t, int64(1500), merged.Power)
	assert.Equal(t, int64(300), merged.Condition)
	assert.Equal(t, int64(1800), merged.Total())
	// The wider window wins so rates stay meaningful.
	assert.Equal(t, uint64(30000), merged.DurationMS)

	// Merging sub-windows into their parent keeps the parent's duration.
	assert.Equal(t, uint64(50000), full.Merge(phase1).DurationMS)
	assert.Equal(t, uint64(50000), phase1.Merge(full).DurationMS)

	// Order does not change the result.
	assert.Equal(t, merged, phase2.Merge(phase1))
}

func TestDamageDataDPS(t *testing.T) {
	d := model.DamageData{Power: 9000, Condition: 1000, DurationMS: 10000}
	assert.InDelta(t, 1000.0, d.DPS(), 0.001)

	assert.Zero(t, model.DamageData{Power: 500}.DPS())
}
