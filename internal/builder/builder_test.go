package builder_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtclog/evtclog-go/internal/builder"
	"github.com/evtclog/evtclog-go/internal/decoder"
	"github.com/evtclog/evtclog-go/internal/evtctest"
	"github.com/evtclog/evtclog-go/pkg/evtc/event"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

func build(t *testing.T, fixture *evtctest.Builder) *model.Log {
	t.Helper()
	raw, err := decoder.Decode(fixture.Bytes(), nil)
	require.NoError(t, err)
	log, err := builder.Build(raw, nil)
	require.NoError(t, err)
	return log
}

func TestBuild_RoundTrip(t *testing.T) {
	fixture := evtctest.New(15438).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		AddPlayer(200, "Bob", "Bob.2222", 2).
		AddNPC(300, 15438, "Vale Guardian").
		AddSkill(1000, "Slash").
		LogStart(0, 1700000000, 1700000100).
		PointOfView(0, 100).
		PhysicalDamage(50, 100, 300, 1000, 500).
		PhysicalDamage(80, 200, 300, 1000, 250).
		Dead(120, 300)

	log := build(t, fixture)

	require.Len(t, log.Agents, 3)
	require.Len(t, log.Players, 2)

	alice := log.Players[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, "Alice.1111", alice.Account)
	assert.Equal(t, 1, alice.Subgroup)
	assert.Equal(t, model.AgentPlayer, alice.Kind)

	boss := log.AgentByAddress(300)
	require.NotNil(t, boss)
	assert.Equal(t, model.AgentNPC, boss.Kind)
	assert.Equal(t, uint16(15438), boss.SpeciesID)
	assert.Equal(t, "Vale Guardian", boss.Name)

	require.NotNil(t, log.PointOfView)
	assert.Equal(t, uint64(100), log.PointOfView.Address)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), log.StartTime)

	require.Len(t, log.Events, 5)
	assert.Equal(t, uint64(0), log.StartMS)
	assert.Equal(t, uint64(120), log.EndMS)
	for i := 1; i < len(log.Events); i++ {
		assert.LessOrEqual(t, log.Events[i-1].Time(), log.Events[i].Time())
	}

	skill := log.SkillByID(1000)
	require.NotNil(t, skill)
	assert.Equal(t, "Slash", skill.Name)
	assert.False(t, skill.Placeholder)
}

func TestBuild_MasterResolution(t *testing.T) {
	fixture := evtctest.New(1).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		AddNPC(400, 4455, "Juvenile Jaguar").
		AddNPC(300, 999, "Target").
		SetMaster(400, 100).
		LogStart(0, 1, 1).
		PointOfView(0, 100).
		PhysicalDamage(10, 400, 300, 1000, 100)

	log := build(t, fixture)

	pet := log.AgentByAddress(400)
	require.NotNil(t, pet)
	require.NotNil(t, pet.Master)
	assert.Equal(t, uint64(100), pet.Master.Address)
	assert.Equal(t, uint64(100), pet.Owner().Address)

	owner := log.AgentByAddress(100)
	assert.Nil(t, owner.Master)
	assert.Same(t, owner, owner.Owner())
}

func TestBuild_MissingSingletons(t *testing.T) {
	tests := []struct {
		name    string
		fixture *evtctest.Builder
		missing string
	}{
		{
			name: "no_point_of_view",
			fixture: evtctest.New(1).
				AddPlayer(100, "Alice", "Alice.1111", 1).
				LogStart(0, 1, 1),
			missing: "point-of-view",
		},
		{
			name: "no_log_start",
			fixture: evtctest.New(1).
				AddPlayer(100, "Alice", "Alice.1111", 1).
				PointOfView(0, 100),
			missing: "log-start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := decoder.Decode(tt.fixture.Bytes(), nil)
			require.NoError(t, err)
			_, err = builder.Build(raw, nil)
			require.Error(t, err)
			var missErr *builder.MissingSingletonError
			require.True(t, errors.As(err, &missErr))
			assert.Equal(t, tt.missing, missErr.Missing)
		})
	}
}

func TestBuild_DuplicateSingletonsFirstWins(t *testing.T) {
	fixture := evtctest.New(1).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		AddPlayer(200, "Bob", "Bob.2222", 1).
		LogStart(0, 111, 0).
		LogStart(5, 222, 0).
		PointOfView(0, 100).
		PointOfView(5, 200)

	log := build(t, fixture)

	assert.Equal(t, time.Unix(111, 0).UTC(), log.StartTime)
	assert.Equal(t, uint64(100), log.PointOfView.Address)
	assert.Equal(t, 2, log.Diagnostics.DuplicateSingletons)
}

func TestBuild_Placeholders(t *testing.T) {
	fixture := evtctest.New(1).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		LogStart(0, 1, 1).
		PointOfView(0, 100).
		// Attacker 900 and skill 7777 appear in no table.
		PhysicalDamage(10, 900, 100, 7777, 50)

	log := build(t, fixture)

	ghost := log.AgentByAddress(900)
	require.NotNil(t, ghost)
	assert.Equal(t, model.AgentUnknown, ghost.Kind)
	assert.Equal(t, 1, log.Diagnostics.PlaceholderAgents)

	skill := log.SkillByID(7777)
	require.NotNil(t, skill)
	assert.True(t, skill.Placeholder)
	assert.Equal(t, 1, log.Diagnostics.PlaceholderSkills)

	// The event itself survives intact.
	var hits int
	for _, ev := range log.Events {
		if hit, ok := ev.(event.PhysicalDamage); ok {
			hits++
			assert.Equal(t, uint64(900), hit.Src)
		}
	}
	assert.Equal(t, 1, hits)
}

func TestBuild_UnknownItemBecomesOpaqueEvent(t *testing.T) {
	fixture := evtctest.New(1).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		LogStart(0, 1, 1).
		PointOfView(0, 100).
		PhysicalDamage(10, 100, 0, 1, 5).
		UnknownState(20, 77).
		PhysicalDamage(30, 100, 0, 1, 5)

	log := build(t, fixture)

	assert.Equal(t, 1, log.Diagnostics.UnknownItems)
	var unknowns []event.Unknown
	for _, ev := range log.Events {
		if u, ok := ev.(event.Unknown); ok {
			unknowns = append(unknowns, u)
		}
	}
	require.Len(t, unknowns, 1)
	assert.Equal(t, uint64(20), unknowns[0].At)
	assert.Equal(t, uint8(77), unknowns[0].StateChange)
	assert.Len(t, unknowns[0].Raw, 64)

	// Adjacent events decode unaffected.
	var hits int
	for _, ev := range log.Events {
		if _, ok := ev.(event.PhysicalDamage); ok {
			hits++
		}
	}
	assert.Equal(t, 2, hits)
}

func TestBuild_StableOrderOnTies(t *testing.T) {
	fixture := evtctest.New(1).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		LogStart(0, 1, 1).
		PointOfView(0, 100).
		PhysicalDamage(10, 100, 0, 1, 111).
		PhysicalDamage(10, 100, 0, 1, 222).
		PhysicalDamage(10, 100, 0, 1, 333)

	log := build(t, fixture)

	var damages []int32
	for _, ev := range log.Events {
		if hit, ok := ev.(event.PhysicalDamage); ok {
			damages = append(damages, hit.Damage)
		}
	}
	assert.Equal(t, []int32{111, 222, 333}, damages)
}

func TestBuild_EventVariants(t *testing.T) {
	fixture := evtctest.New(1).
		AddPlayer(100, "Alice", "Alice.1111", 1).
		AddNPC(300, 5, "Target").
		LogStart(0, 1, 1).
		PointOfView(0, 100).
		Cast(10, 100, 1000).
		BuffApply(20, 100, 300, 738, 8000).
		BuffDamage(30, 100, 300, 736, 99).
		BuffRemoveSingle(40, 300, 738).
		Downed(50, 100).
		Dead(60, 300).
		HealthUpdate(55, 300, 50)

	log := build(t, fixture)

	kinds := make(map[event.Kind]int)
	for _, ev := range log.Events {
		kinds[ev.Kind()]++
	}
	assert.Equal(t, 1, kinds[event.KindSkillCast])
	assert.Equal(t, 1, kinds[event.KindBuffApply])
	assert.Equal(t, 1, kinds[event.KindBuffDamage])
	assert.Equal(t, 1, kinds[event.KindBuffRemove])
	assert.Equal(t, 1, kinds[event.KindDowned])
	assert.Equal(t, 1, kinds[event.KindDead])
	assert.Equal(t, 1, kinds[event.KindHealthUpdate])

	for _, ev := range log.Events {
		if hu, ok := ev.(event.HealthUpdate); ok {
			assert.InDelta(t, 0.5, hu.Health, 0.0001)
		}
	}
}
