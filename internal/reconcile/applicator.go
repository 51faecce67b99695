package reconcile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cdwalton/stateyear/internal/relation"
	"github.com/cdwalton/stateyear/internal/rules"
)

// Journal receives one entry per row mutation the applicator performs.
// Implemented by the store's recode log; a nil journal disables recording.
type Journal interface {
	RecordAction(ruleID, action string, code, year int) error
}

// Journal action names.
const (
	ActionDrop   = "drop"
	ActionRecode = "recode"
	ActionCopy   = "copy"
)

// Stats counts the row mutations of one Apply run.
type Stats struct {
	RulesApplied int `json:"rules_applied"`
	RowsDropped  int `json:"rows_dropped"`
	RowsRecoded  int `json:"rows_recoded"`
	RowsCopied   int `json:"rows_copied"`
}

// Result is the outcome of applying the full rule sequence.
type Result struct {
	// Relation is the reconciled regime relation. The input relation is
	// never mutated.
	Relation *relation.Relation

	// Warnings lists declared conflict years with no actual overlap.
	Warnings []Warning

	Stats Stats
}

// Applicator applies an ordered reconciliation rule sequence to the regime
// relation. Construct with New, which validates the sequence's ordering
// dependencies up front.
type Applicator struct {
	seq     []rules.Rule
	logger  *slog.Logger
	journal Journal
}

// Option configures an Applicator.
type Option func(*Applicator)

// WithLogger sets the logger used for rule-level progress and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *Applicator) { a.logger = l }
}

// WithJournal sets the journal that records every row mutation.
func WithJournal(j Journal) Option {
	return func(a *Applicator) { a.journal = j }
}

// New creates an Applicator for the given rule sequence.
// Returns an Error with ErrCodeBadRuleOrder if the sequence is invalid or
// violates a declared ordering dependency.
func New(seq []rules.Rule, opts ...Option) (*Applicator, error) {
	if err := rules.CheckOrder(seq); err != nil {
		return nil, &Error{Code: ErrCodeBadRuleOrder, Message: err.Error()}
	}
	a := &Applicator{
		seq:    seq,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Apply executes the rule sequence against regime, in order, and returns
// the reconciled relation. regime is cloned first and never mutated.
//
// capability is read-only and consulted in exactly one place: copy-forward
// rules restrict the donor's years to the capability relation's coverage
// of the new code.
//
// Apply is idempotent: running it on its own output is a no-op, because
// source codes no longer exist and copy-forward skips years the target
// already covers.
func (a *Applicator) Apply(regime, capability *relation.Relation) (*Result, error) {
	rel := regime.Clone()
	res := &Result{}

	for _, rule := range a.seq {
		var err error
		switch rule.Mode {
		case rules.ModeDirectRecode:
			rel, err = a.applyRecode(rel, rule, res)
		case rules.ModeRecodeWithDrop:
			a.applyDrops(rel, rule, res)
			rel, err = a.applyRecode(rel, rule, res)
		case rules.ModeSwap:
			rel, err = a.applySwap(rel, rule, res)
		case rules.ModeCopyForward:
			err = a.applyCopyForward(rel, rule, capability, res)
		default:
			err = fmt.Errorf("rule %q: unhandled mode %q", rule.ID, rule.Mode)
		}
		if err != nil {
			return nil, err
		}
		res.Stats.RulesApplied++
		a.logger.Debug("rule applied", "rule", rule.ID, "mode", string(rule.Mode), "rows", rel.Len())
	}

	res.Relation = rel
	return res, nil
}

// applyDrops removes the losing row of each declared conflict year.
//
// A drop fires only when both rivals actually coexist at that year: the
// doomed row and its surviving counterpart must both exist. Anything else
// means the catalogue disagrees with the inputs, which is surfaced as a
// warning, never acted on.
func (a *Applicator) applyDrops(rel *relation.Relation, rule rules.Rule, res *Result) {
	for _, d := range rule.Drops {
		if !rel.Has(d.Code, d.Year) || !rel.Has(d.Keep, d.Year) {
			w := Warning{
				RuleID:  rule.ID,
				Key:     relation.Key{Code: d.Code, Year: d.Year},
				Message: fmt.Sprintf("declared conflict year has no overlap between %d and %d", d.Code, d.Keep),
			}
			res.Warnings = append(res.Warnings, w)
			a.logger.Warn("unknown conflict year", "rule", rule.ID, "code", d.Code, "year", d.Year, "keep", d.Keep)
			continue
		}
		rel.Delete(d.Code, d.Year)
		res.Stats.RowsDropped++
		a.record(rule.ID, ActionDrop, d.Code, d.Year)
	}
}

// applyRecode relabels every record whose code is in rule.Sources to
// rule.Target. The relation is rebuilt from a snapshot; a key collision
// during the rebuild is a uniqueness violation.
func (a *Applicator) applyRecode(rel *relation.Relation, rule rules.Rule, res *Result) (*relation.Relation, error) {
	src := make(map[int]bool, len(rule.Sources))
	for _, c := range rule.Sources {
		src[c] = true
	}
	return a.commit(rel, rule, res, func(code int) int {
		if src[code] {
			return rule.Target
		}
		return code
	})
}

// applySwap relabels codes per rule.Mapping in one step. Because commit
// computes every new code from the pre-rule snapshot before any write,
// chained mappings (341→347 alongside 348→341) cannot contaminate each
// other the way sequential in-place renames would.
//
// A swap retires at least one code: a mapping key that never appears as a
// mapping value. When no retired code remains in the relation the swap has
// already run, and re-applying it would undo itself; it is skipped instead,
// which keeps the full sequence idempotent.
func (a *Applicator) applySwap(rel *relation.Relation, rule rules.Rule, res *Result) (*relation.Relation, error) {
	if retired := retiredCodes(rule.Mapping); len(retired) > 0 && !anyCodePresent(rel, retired) {
		a.logger.Debug("swap already applied, skipping", "rule", rule.ID)
		return rel, nil
	}
	return a.commit(rel, rule, res, func(code int) int {
		if to, ok := rule.Mapping[code]; ok {
			return to
		}
		return code
	})
}

// applyCopyForward duplicates the donor code's records for every year the
// capability relation covers under the target code, relabels the copies,
// and appends them. Originals are untouched. Years the regime relation
// already covers under the target code are skipped, which keeps the full
// sequence idempotent.
func (a *Applicator) applyCopyForward(rel *relation.Relation, rule rules.Rule, capability *relation.Relation, res *Result) error {
	for _, year := range capability.Years(rule.Target) {
		donor, ok := rel.Get(rule.Donor, year)
		if !ok {
			continue
		}
		if rel.Has(rule.Target, year) {
			continue
		}
		copied := donor.Clone()
		copied.Code = rule.Target
		if err := rel.Append(copied); err != nil {
			return a.asUniquenessViolation(err, rule.ID)
		}
		res.Stats.RowsCopied++
		a.record(rule.ID, ActionCopy, rule.Target, year)
	}
	return nil
}

// commit rebuilds rel with newCode applied to every record's code column.
// The snapshot is taken in full before the rebuild starts, so the mapping
// only ever sees pre-rule codes.
func (a *Applicator) commit(rel *relation.Relation, rule rules.Rule, res *Result, newCode func(int) int) (*relation.Relation, error) {
	snapshot := rel.Records()
	out := relation.New(rel.Name())
	for _, rec := range snapshot {
		to := newCode(rec.Code)
		changed := to != rec.Code
		from := rec.Code
		rec.Code = to
		if err := out.Append(rec); err != nil {
			return nil, a.asUniquenessViolation(err, rule.ID)
		}
		if changed {
			res.Stats.RowsRecoded++
			a.record(rule.ID, ActionRecode, from, rec.Year)
		}
	}
	return out, nil
}

// retiredCodes returns the mapping keys that never appear as mapping
// values: the codes a swap removes from circulation.
func retiredCodes(mapping map[int]int) []int {
	asValue := make(map[int]bool, len(mapping))
	for _, v := range mapping {
		asValue[v] = true
	}
	var retired []int
	for k := range mapping {
		if !asValue[k] {
			retired = append(retired, k)
		}
	}
	return retired
}

func anyCodePresent(rel *relation.Relation, codes []int) bool {
	for _, c := range codes {
		if len(rel.Years(c)) > 0 {
			return true
		}
	}
	return false
}

func (a *Applicator) asUniquenessViolation(err error, ruleID string) error {
	var dup *relation.DuplicateKeyError
	if errors.As(err, &dup) {
		return &Error{
			Code:    ErrCodeUniquenessViolation,
			Message: "rule produced duplicate (code, year) key",
			RuleID:  ruleID,
			Key:     dup.Key,
		}
	}
	return err
}

func (a *Applicator) record(ruleID, action string, code, year int) {
	if a.journal == nil {
		return
	}
	if err := a.journal.RecordAction(ruleID, action, code, year); err != nil {
		a.logger.Error("journal write failed", "rule", ruleID, "action", action, "error", err)
	}
}
