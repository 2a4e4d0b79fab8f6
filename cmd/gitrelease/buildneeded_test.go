package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/NicabarNimble/go-gitrelease/internal/config"
	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathsRepo scripts ChangedPaths on top of the in-memory repository.
type pathsRepo struct {
	*gitx.Memory
	paths []string
}

func (r *pathsRepo) ChangedPaths(ctx context.Context, rev string) ([]string, error) {
	return r.paths, nil
}

func TestReportBuildNeeded(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{
			name:  "version file touched",
			paths: []string{"src/main.c", "VERSION"},
			want:  "true\n",
		},
		{
			name:  "build counter touched",
			paths: []string{"BUILD"},
			want:  "true\n",
		},
		{
			name:  "only sources touched",
			paths: []string{"src/main.c", "docs/README"},
			want:  "false\n",
		},
		{
			name:  "empty commit",
			paths: nil,
			want:  "false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &pathsRepo{Memory: gitx.NewMemory("master"), paths: tt.paths}
			cmd := newTestCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)

			err := reportBuildNeeded(cmd, repo, config.DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestBuildNeededCommand(t *testing.T) {
	cmd := newBuildNeededCmd()
	assert.NotNil(t, cmd)
	assert.Equal(t, "build-needed", cmd.Use)
	// The answer lives on stdout; both answers exit zero. Keep that
	// contract documented for pipeline callers.
	assert.Contains(t, cmd.Long, "exit status is zero")
	for _, name := range []string{"dir", "config"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Expected flag %s not found", name)
	}
}
