package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionGeneratesScript(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			completionCmd.SetOut(&buf)
			require.NoError(t, completionCmd.RunE(completionCmd, []string{shell}))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	assert.Error(t, completionCmd.Args(completionCmd, []string{"tcsh"}))
}
