package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cdwalton/stateyear/internal/relation"
	"github.com/cdwalton/stateyear/internal/rules"
)

// RowSpec declares one input record.
type RowSpec struct {
	Code    int                `yaml:"code"`
	Year    int                `yaml:"year"`
	Country string             `yaml:"country,omitempty"`
	Fields  map[string]float64 `yaml:"fields,omitempty"`
}

// AssertionType identifies an assertion kind.
type AssertionType string

const (
	AssertRowCount     AssertionType = "row_count"
	AssertHasRow       AssertionType = "has_row"
	AssertAbsentRow    AssertionType = "absent_row"
	AssertAbsentCode   AssertionType = "absent_code"
	AssertWarningCount AssertionType = "warning_count"
)

// Assertion is one expectation about the pipeline's output.
type Assertion struct {
	Type   AssertionType      `yaml:"type"`
	Code   int                `yaml:"code,omitempty"`
	Year   int                `yaml:"year,omitempty"`
	Count  int                `yaml:"count,omitempty"`
	Fields map[string]float64 `yaml:"fields,omitempty"`
}

// Scenario declares a pipeline conformance test: inputs, the rule subset
// to apply, and expectations.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Capability  []RowSpec   `yaml:"capability"`
	Regime      []RowSpec   `yaml:"regime"`
	Rules       []string    `yaml:"rules,omitempty"`
	Assertions  []Assertion `yaml:"assertions,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	for _, a := range s.Assertions {
		switch a.Type {
		case AssertRowCount, AssertHasRow, AssertAbsentRow, AssertAbsentCode, AssertWarningCount:
		default:
			return fmt.Errorf("unknown assertion type %q", a.Type)
		}
	}
	for _, id := range s.Rules {
		if _, ok := rules.ByID(id); !ok {
			return fmt.Errorf("unknown rule %q", id)
		}
	}
	return nil
}

// ruleSequence resolves the scenario's rule subset against the built-in
// catalogue, preserving the listed order. An empty list means the full
// catalogue.
func (s *Scenario) ruleSequence() []rules.Rule {
	if len(s.Rules) == 0 {
		return rules.Catalogue()
	}
	seq := make([]rules.Rule, 0, len(s.Rules))
	for _, id := range s.Rules {
		r, _ := rules.ByID(id) // validated at load time
		// Scenarios may exercise a rule in isolation; ordering deps are
		// only meaningful against the rules actually present.
		r.After = pruneAfter(r.After, s.Rules)
		seq = append(seq, r)
	}
	return seq
}

func pruneAfter(after, present []string) []string {
	has := make(map[string]bool, len(present))
	for _, id := range present {
		has[id] = true
	}
	var kept []string
	for _, dep := range after {
		if has[dep] {
			kept = append(kept, dep)
		}
	}
	return kept
}

func buildRelation(name string, rows []RowSpec) (*relation.Relation, error) {
	recs := make([]relation.Record, len(rows))
	for i, row := range rows {
		recs[i] = relation.Record{
			Code:    row.Code,
			Year:    row.Year,
			Country: row.Country,
			Fields:  row.Fields,
		}
	}
	return relation.FromRecords(name, recs)
}
