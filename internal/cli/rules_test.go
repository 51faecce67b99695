package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogue(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRulesShowListsCatalogueInOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRulesShowCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, lines[0], "gran-colombia-merge")
	assert.Contains(t, lines[3], "montenegro-kosovo-swap")
	assert.Contains(t, lines[3], "after yugoslavia-merge")
	assert.Contains(t, lines[9], "austria-hungary-backfill")
	assert.Contains(t, lines[9], "donor 305 -> target 300")
}

func TestRulesShowJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRulesShowCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, "montenegro-kosovo-swap")
	assert.Contains(t, out, "recode-with-drop")
}

func TestRulesValidateAcceptsCatalogue(t *testing.T) {
	path := writeCatalogue(t, t.TempDir(), "custom.cue", `
rules: [
	{
		id:     "pakistan-renumbering"
		entity: "Pakistan code unification"
		mode:   "direct-recode"
		sources: [769]
		target: 770
	},
]
`)

	buf := &bytes.Buffer{}
	cmd := newRulesValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "1 rules, catalogue valid")
}

func TestRulesValidateRejectsBadMode(t *testing.T) {
	path := writeCatalogue(t, t.TempDir(), "bad.cue", `
rules: [
	{
		id:     "broken"
		entity: "broken"
		mode:   "merge-everything"
	},
]
`)

	buf := &bytes.Buffer{}
	cmd := newRulesValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "catalogue invalid")
}

func TestRulesValidateRejectsOrderingViolation(t *testing.T) {
	path := writeCatalogue(t, t.TempDir(), "ordering.cue", `
rules: [
	{
		id:     "second"
		entity: "depends on a later rule"
		mode:   "direct-recode"
		sources: [525]
		target: 626
		after: ["first"]
	},
	{
		id:     "first"
		entity: "frees code 626"
		mode:   "direct-recode"
		sources: [626]
		target: 625
	},
]
`)

	buf := &bytes.Buffer{}
	cmd := newRulesValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRulesValidateMissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRulesValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"/nonexistent/catalogue.cue"})

	err := cmd.Execute()
	require.Error(t, err)
}
