package buffdef_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evtclog/evtclog-go/pkg/evtc/buffdef"
	"github.com/evtclog/evtclog-go/pkg/evtc/model"
)

const validYAML = `version: 1
buffs:
  - id: 740
    name: Might
    max_stacks: 25
  - id: 738
    name: Vulnerability
    max_stacks: 25
`

func TestLoadBytes(t *testing.T) {
	f, err := buffdef.LoadBytes([]byte(validYAML))
	require.NoError(t, err)

	require.Len(t, f.Buffs, 2)
	assert.Equal(t, 1, f.Version)
	assert.Equal(t, int32(740), f.Buffs[0].ID)
	assert.Equal(t, "Might", f.Buffs[0].Name)
	assert.Equal(t, 25, f.Buffs[0].MaxStacks)
}

func TestLoadBytesErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty",
			yaml:    "",
			wantErr: "empty",
		},
		{
			name:    "invalid_yaml",
			yaml:    "version: [unclosed",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "unsupported_version",
			yaml:    "version: 2\nbuffs:\n  - id: 740\n    max_stacks: 25\n",
			wantErr: "unsupported version 2",
		},
		{
			name:    "no_buffs",
			yaml:    "version: 1\nbuffs: []\n",
			wantErr: "at least one buff is required",
		},
		{
			name:    "missing_id",
			yaml:    "version: 1\nbuffs:\n  - name: Might\n    max_stacks: 25\n",
			wantErr: "id is required",
		},
		{
			name:    "zero_stacks",
			yaml:    "version: 1\nbuffs:\n  - id: 740\n    max_stacks: 0\n",
			wantErr: "max_stacks must be positive",
		},
		{
			name:    "stack_cap_exceeded",
			yaml:    "version: 1\nbuffs:\n  - id: 740\n    max_stacks: 2000\n",
			wantErr: "max_stacks too large",
		},
		{
			name:    "duplicate_id",
			yaml:    "version: 1\nbuffs:\n  - id: 740\n    max_stacks: 25\n  - id: 740\n    max_stacks: 25\n",
			wantErr: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buffdef.LoadBytes([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadBytesTooManyBuffs(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("version: 1\nbuffs:\n")
	for i := 0; i < buffdef.MaxBuffCount+1; i++ {
		fmt.Fprintf(&sb, "  - id: %d\n    max_stacks: 1\n", i+1)
	}

	_, err := buffdef.LoadBytes([]byte(sb.String()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many buffs")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buffs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	f, err := buffdef.Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Buffs, 2)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := buffdef.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := buffdef.Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("empty_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := buffdef.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestTracked(t *testing.T) {
	f, err := buffdef.LoadBytes([]byte(validYAML))
	require.NoError(t, err)

	tracked := f.Tracked()
	assert.Equal(t, []model.TrackedBuff{
		{ID: 740, Name: "Might", MaxStacks: 25},
		{ID: 738, Name: "Vulnerability", MaxStacks: 25},
	}, tracked)
}
