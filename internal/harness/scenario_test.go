package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: sample
description: "desc"
capability:
  - {code: 100, year: 1832, fields: {milex: 5}}
regime:
  - {code: 99, year: 1832}
  - {code: 100, year: 1832, country: Colombia, fields: {polity: 5}}
rules: [gran-colombia-merge]
assertions:
  - {type: row_count, count: 1}
  - {type: has_row, code: 100, year: 1832, fields: {polity: 5}}
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "sample", s.Name)
	require.Len(t, s.Capability, 1)
	assert.Equal(t, 5.0, s.Capability[0].Fields["milex"])
	require.Len(t, s.Regime, 2)
	assert.Equal(t, "Colombia", s.Regime[1].Country)
	assert.Equal(t, []string{"gran-colombia-merge"}, s.Rules)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertHasRow, s.Assertions[1].Type)
}

func TestLoadScenarioRequiresName(t *testing.T) {
	path := writeScenario(t, `description: "no name"`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenarioRejectsUnknownAssertion(t *testing.T) {
	path := writeScenario(t, `
name: bad
assertions:
  - {type: trace_contains}
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assertion type")
}

func TestLoadScenarioRejectsUnknownRule(t *testing.T) {
	path := writeScenario(t, `
name: bad
rules: [no-such-rule]
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rule "no-such-rule"`)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRuleSequenceDefaultsToFullCatalogue(t *testing.T) {
	s := &Scenario{Name: "x"}
	assert.Len(t, s.ruleSequence(), 10)
}

func TestRuleSequencePrunesAbsentDependencies(t *testing.T) {
	// The swap normally requires the Yugoslavia merge; exercising it in
	// isolation must not trip the ordering check.
	s := &Scenario{Name: "x", Rules: []string{"montenegro-kosovo-swap"}}
	seq := s.ruleSequence()
	require.Len(t, seq, 1)
	assert.Empty(t, seq[0].After)

	both := &Scenario{Name: "y", Rules: []string{"yugoslavia-merge", "montenegro-kosovo-swap"}}
	seq = both.ruleSequence()
	require.Len(t, seq, 2)
	assert.Equal(t, []string{"yugoslavia-merge"}, seq[1].After)
}
