package evtc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtclog/evtclog-go/internal/evtctest"
	"github.com/evtclog/evtclog-go/pkg/evtc"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

func twoPlayerFight() []byte {
	return evtctest.New(60000).
		AddPlayer(100, "Alice", "A.1111", 1).
		AddPlayer(200, "Bob", "B.2222", 1).
		AddNPC(300, 60000, "Boss").
		AddSkill(1000, "Strike").
		LogStart(0, 1700000000, 1700000000).
		PointOfView(0, 100).
		PhysicalDamage(10, 100, 300, 1000, 1000).
		PhysicalDamage(100, 200, 300, 1000, 500).
		Dead(200, 300).
		Bytes()
}

func TestAnalyzeEndToEnd(t *testing.T) {
	s, err := evtc.Analyze(twoPlayerFight())
	require.NoError(t, err)

	assert.Equal(t, "A.1111", s.RecordedBy)
	assert.Equal(t, model.ResultSuccess, s.Result)
	assert.Equal(t, model.ModeUnknown, s.Mode)
	assert.Equal(t, uint8(1), s.Revision)

	require.Len(t, s.PhaseStats, 1)
	phase := s.PhaseStats[0].Phase
	assert.Equal(t, uint64(0), phase.Start)
	assert.Equal(t, uint64(200), phase.End)

	assert.Equal(t, int64(1000), s.FullFightDamage.ByAgent[100].Power)
	assert.Equal(t, int64(500), s.FullFightDamage.ByAgent[200].Power)
	assert.Equal(t, int64(1500), s.FullFightDamage.TotalDamage())

	require.Len(t, s.PlayerData, 2)
	for _, pd := range s.PlayerData {
		assert.Zero(t, pd.Downs)
		assert.Zero(t, pd.Deaths)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	data := twoPlayerFight()

	first, err := evtc.Analyze(data)
	require.NoError(t, err)
	second, err := evtc.Analyze(data)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestParseBytesFatal(t *testing.T) {
	_, err := evtc.ParseBytes([]byte("not a log"))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fight.evtc")
	require.NoError(t, os.WriteFile(path, twoPlayerFight(), 0o644))

	log, err := evtc.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(60000), log.BossID)
	assert.Len(t, log.Players, 2)
}

func TestParseFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := evtc.ParseFile(filepath.Join(t.TempDir(), "absent.evtc"))
		assert.Error(t, err)
	})

	t.Run("not_regular", func(t *testing.T) {
		_, err := evtc.ParseFile(t.TempDir())
		assert.Error(t, err)
	})
}

func TestWithTrackedBuffs(t *testing.T) {
	data := evtctest.New(60000).
		AddPlayer(100, "Alice", "A.1111", 1).
		AddNPC(300, 60000, "Boss").
		LogStart(0, 1, 0).
		PointOfView(0, 100).
		BuffApply(10, 100, 100, 5555, 10000).
		Dead(200, 300).
		Bytes()

	s, err := evtc.Analyze(data, evtc.WithTrackedBuffs(
		evtc.TrackedBuff{ID: 5555, Name: "Custom", MaxStacks: 5},
	))
	require.NoError(t, err)

	require.Contains(t, s.BuffSimulation.Timelines, int32(5555))
	assert.Empty(t, s.BuffSimulation.Untracked)
}
