package rules

import "fmt"

// Mode selects the applicator routine for a rule.
type Mode string

const (
	// ModeDirectRecode relabels every source-code record to the target
	// code. Valid only when source and target never coexist in a year.
	ModeDirectRecode Mode = "direct-recode"

	// ModeRecodeWithDrop removes the losing row of each declared conflict
	// year first, then relabels the remaining source-code records to the
	// target code.
	ModeRecodeWithDrop Mode = "recode-with-drop"

	// ModeCopyForward duplicates a donor code's records for an externally
	// supplied year set, relabels the copies to the target code, and
	// appends them. Originals are untouched.
	ModeCopyForward Mode = "copy-forward"

	// ModeSwap relabels several codes simultaneously. The new code column
	// is computed in full from a snapshot of the old one before anything
	// is written back, so chained mappings (a→b, c→a) cannot clobber
	// each other.
	ModeSwap Mode = "swap"
)

// ValidModes defines the allowed rule modes.
var ValidModes = map[Mode]bool{
	ModeDirectRecode:   true,
	ModeRecodeWithDrop: true,
	ModeCopyForward:    true,
	ModeSwap:           true,
}

// Drop names one row to remove before a recode: the losing side of a
// conflict year. The drop only happens when the row at (Keep, Year) exists;
// a declared conflict year with no actual overlap is surfaced as a warning,
// not silently dropped.
type Drop struct {
	Code int `json:"code"`
	Year int `json:"year"`
	Keep int `json:"keep"`
}

func (d Drop) String() string {
	return fmt.Sprintf("drop (%d, %d) keep %d", d.Code, d.Year, d.Keep)
}

// Rule describes one historical code-identity event and its resolution
// policy. Which fields are meaningful depends on Mode:
//
//   - direct-recode:    Sources, Target
//   - recode-with-drop: Sources, Target, Drops
//   - copy-forward:     Donor, Target (year set supplied by the caller)
//   - swap:             Mapping
//
// After lists rule IDs that must appear earlier in any sequence containing
// this rule.
type Rule struct {
	ID      string      `json:"id"`
	Entity  string      `json:"entity"`
	Mode    Mode        `json:"mode"`
	Sources []int       `json:"sources,omitempty"`
	Target  int         `json:"target,omitempty"`
	Drops   []Drop      `json:"drops,omitempty"`
	Mapping map[int]int `json:"mapping,omitempty"`
	Donor   int         `json:"donor,omitempty"`
	After   []string    `json:"after,omitempty"`
}

// Validate checks that the rule's fields are consistent with its mode.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has empty id")
	}
	if !ValidModes[r.Mode] {
		return fmt.Errorf("rule %q: invalid mode %q", r.ID, r.Mode)
	}
	switch r.Mode {
	case ModeDirectRecode:
		if len(r.Sources) == 0 {
			return fmt.Errorf("rule %q: direct-recode requires at least one source code", r.ID)
		}
		if r.Target == 0 {
			return fmt.Errorf("rule %q: direct-recode requires a target code", r.ID)
		}
	case ModeRecodeWithDrop:
		if len(r.Sources) == 0 {
			return fmt.Errorf("rule %q: recode-with-drop requires at least one source code", r.ID)
		}
		if r.Target == 0 {
			return fmt.Errorf("rule %q: recode-with-drop requires a target code", r.ID)
		}
		if len(r.Drops) == 0 {
			return fmt.Errorf("rule %q: recode-with-drop requires at least one drop", r.ID)
		}
	case ModeCopyForward:
		if r.Donor == 0 {
			return fmt.Errorf("rule %q: copy-forward requires a donor code", r.ID)
		}
		if r.Target == 0 {
			return fmt.Errorf("rule %q: copy-forward requires a target code", r.ID)
		}
	case ModeSwap:
		if len(r.Mapping) == 0 {
			return fmt.Errorf("rule %q: swap requires a non-empty mapping", r.ID)
		}
	}
	return nil
}

// CheckOrder validates a rule sequence: every rule must validate, IDs must
// be unique, and every After dependency must name a rule that appears
// earlier in the sequence.
func CheckOrder(seq []Rule) error {
	seen := make(map[string]bool, len(seq))
	for _, r := range seq {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		for _, dep := range r.After {
			if !seen[dep] {
				return fmt.Errorf("rule %q must run after %q, which does not precede it", r.ID, dep)
			}
		}
		seen[r.ID] = true
	}
	return nil
}
