package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/cdwalton/stateyear/internal/rules"
)

//go:embed schema.cue
var schemaCUE string

// CompileError represents a catalogue compilation error with source
// position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadFile compiles a CUE catalogue file into an ordered rule sequence.
// The sequence is schema-checked, decoded, and validated (including
// ordering dependencies) before being returned.
func LoadFile(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return Compile(data, path)
}

// Compile compiles CUE catalogue source into an ordered rule sequence.
// filename is used for error positions only.
func Compile(src []byte, filename string) ([]rules.Rule, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(v)
	rulesVal := unified.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "catalogue must define a top-level rules list",
			Pos:     v.Pos(),
		}
	}
	if err := rulesVal.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := rulesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var seq []rules.Rule
	for iter.Next() {
		rule, err := parseRule(iter.Value())
		if err != nil {
			return nil, err
		}
		seq = append(seq, rule)
	}

	if err := rules.CheckOrder(seq); err != nil {
		return nil, &CompileError{
			Field:   "rules",
			Message: err.Error(),
			Pos:     rulesVal.Pos(),
		}
	}
	return seq, nil
}

// parseRule decodes one rule struct. The schema has already constrained
// shapes and value ranges; this fills the typed record.
func parseRule(v cue.Value) (rules.Rule, error) {
	var r rules.Rule

	str := func(field string) (string, error) {
		fv := v.LookupPath(cue.ParsePath(field))
		if !fv.Exists() {
			return "", nil
		}
		return fv.String()
	}

	var err error
	if r.ID, err = str("id"); err != nil {
		return r, formatCUEError(err)
	}
	if r.Entity, err = str("entity"); err != nil {
		return r, formatCUEError(err)
	}
	mode, err := str("mode")
	if err != nil {
		return r, formatCUEError(err)
	}
	r.Mode = rules.Mode(mode)

	if r.Sources, err = intList(v, "sources"); err != nil {
		return r, err
	}
	if r.Target, err = intField(v, "target"); err != nil {
		return r, err
	}
	if r.Donor, err = intField(v, "donor"); err != nil {
		return r, err
	}
	if r.Drops, err = dropList(v, "drops"); err != nil {
		return r, err
	}
	if r.Mapping, err = intMapping(v, "mapping"); err != nil {
		return r, err
	}
	if r.After, err = stringList(v, "after"); err != nil {
		return r, err
	}
	return r, nil
}

func intField(v cue.Value, field string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func intList(v cue.Value, field string) ([]int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

func dropList(v cue.Value, field string) ([]rules.Drop, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []rules.Drop
	for iter.Next() {
		dv := iter.Value()
		var d rules.Drop
		if d.Code, err = intField(dv, "code"); err != nil {
			return nil, err
		}
		if d.Year, err = intField(dv, "year"); err != nil {
			return nil, err
		}
		if d.Keep, err = intField(dv, "keep"); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// intMapping decodes a swap mapping. CUE struct labels are strings, so
// keys are parsed back into integer codes here.
func intMapping(v cue.Value, field string) (map[int]int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := make(map[int]int)
	for iter.Next() {
		label := iter.Label()
		from, err := strconv.Atoi(label)
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("mapping key %q is not an integer code", label),
				Pos:     iter.Value().Pos(),
			}
		}
		to, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out[from] = int(to)
	}
	return out, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
