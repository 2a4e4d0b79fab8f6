package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/NicabarNimble/go-gitrelease/internal/gitx"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	return cmd
}

func TestBlessConfiguresBranch(t *testing.T) {
	repo := gitx.NewMemory("feature")
	cmd := newTestCmd()

	err := bless(cmd, repo, &blessOptions{remote: "origin", merge: "refs/heads/main"})
	require.NoError(t, err)

	assert.Equal(t, "origin", repo.Values["branch.feature.remote"])
	assert.Equal(t, "refs/heads/main", repo.Values["branch.feature.merge"])
}

func TestBlessDefaultsMergeToBranch(t *testing.T) {
	repo := gitx.NewMemory("master")
	cmd := newTestCmd()

	err := bless(cmd, repo, &blessOptions{remote: "origin"})
	require.NoError(t, err)

	assert.Equal(t, "refs/heads/master", repo.Values["branch.master.merge"])
}

func TestBlessRegistersRemoteURL(t *testing.T) {
	repo := gitx.NewMemory("master")
	cmd := newTestCmd()

	err := bless(cmd, repo, &blessOptions{remote: "origin", url: "git@example.com:team/project.git"})
	require.NoError(t, err)

	assert.Contains(t, repo.Ops, "remote-add origin git@example.com:team/project.git")
	assert.Equal(t, "origin", repo.Values["branch.master.remote"])
}

func TestBlessRejectsInvalidURL(t *testing.T) {
	repo := gitx.NewMemory("master")
	cmd := newTestCmd()

	err := bless(cmd, repo, &blessOptions{remote: "origin", url: "ftp://example.com/project"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid remote URL")
	assert.Empty(t, repo.Values)
}

func TestBlessCommandFlags(t *testing.T) {
	cmd := newBlessCmd()
	assert.NotNil(t, cmd)
	for _, name := range []string{"remote", "merge", "url", "dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Expected flag %s not found", name)
	}
}
