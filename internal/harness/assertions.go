package harness

import "fmt"

// Check evaluates the scenario's assertions against a result.
// Returns one error per failed assertion; an empty slice means pass.
func Check(s *Scenario, res *Result) []error {
	var failures []error
	for i, a := range s.Assertions {
		if err := checkOne(a, res); err != nil {
			failures = append(failures, fmt.Errorf("assertion %d (%s): %w", i, a.Type, err))
		}
	}
	return failures
}

func checkOne(a Assertion, res *Result) error {
	switch a.Type {
	case AssertRowCount:
		if got := res.Table.Len(); got != a.Count {
			return fmt.Errorf("expected %d rows, got %d", a.Count, got)
		}
	case AssertHasRow:
		rec, ok := res.Table.Get(a.Code, a.Year)
		if !ok {
			return fmt.Errorf("no row at (%d, %d)", a.Code, a.Year)
		}
		for name, want := range a.Fields {
			got, present := rec.Fields[name]
			if !present {
				return fmt.Errorf("row (%d, %d): field %q is missing", a.Code, a.Year, name)
			}
			if got != want {
				return fmt.Errorf("row (%d, %d): field %q = %v, expected %v", a.Code, a.Year, name, got, want)
			}
		}
	case AssertAbsentRow:
		if res.Table.Has(a.Code, a.Year) {
			return fmt.Errorf("unexpected row at (%d, %d)", a.Code, a.Year)
		}
	case AssertAbsentCode:
		if years := res.Table.Years(a.Code); len(years) > 0 {
			return fmt.Errorf("code %d still present in years %v", a.Code, years)
		}
	case AssertWarningCount:
		if got := len(res.Warnings); got != a.Count {
			return fmt.Errorf("expected %d warnings, got %d: %v", a.Count, got, res.Warnings)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
