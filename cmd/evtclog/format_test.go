package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtclog/evtclog-go/internal/evtctest"
	"github.com/evtclog/evtclog-go/pkg/evtc"
)

func sampleStats(t *testing.T) *evtc.LogStatistics {
	t.Helper()
	data := evtctest.New(60000).
		AddPlayer(100, "Alice", "A.1111", 1).
		AddPlayer(200, "Bob", "B.2222", 1).
		AddNPC(300, 60000, "Boss").
		LogStart(0, 1700000000, 1700000000).
		PointOfView(0, 100).
		PhysicalDamage(10, 100, 300, 1000, 1000).
		PhysicalDamage(100, 200, 300, 1000, 500).
		Dead(200, 300).
		Bytes()
	stats, err := evtc.Analyze(data)
	require.NoError(t, err)
	return stats
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON("fight.evtc", sampleStats(t), &buf))

	line := strings.TrimRight(buf.String(), "\n")
	assert.NotContains(t, line, "\n", "jsonl output must be a single line")

	var s summary
	require.NoError(t, json.Unmarshal([]byte(line), &s))
	assert.Equal(t, "fight.evtc", s.File)
	assert.Equal(t, "success", s.Result)

	require.Len(t, s.Players, 2)
	// Sorted by account.
	assert.Equal(t, "A.1111", s.Players[0].Account)
	assert.Equal(t, "B.2222", s.Players[1].Account)
	assert.Equal(t, int64(1000), s.Players[0].Power)
	assert.Equal(t, int64(500), s.Players[1].Power)
}

func TestOutputPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputPretty("fight.evtc", sampleStats(t), &buf))

	out := buf.String()
	assert.Contains(t, out, "fight.evtc")
	assert.Contains(t, out, "recorded by A.1111")
	assert.Contains(t, out, "A.1111")
	assert.Contains(t, out, "B.2222")
	assert.Contains(t, out, "downs=0 deaths=0")
}

func TestOutputStatisticsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := OutputStatistics("xml", "fight.evtc", sampleStats(t), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
