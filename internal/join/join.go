// Package join merges the reconciled regime relation into the capability
// relation, producing the final state-year table.
package join

import (
	"errors"
	"fmt"

	"github.com/cdwalton/stateyear/internal/relation"
)

// CardinalityError reports a left join whose output row count differs from
// the base relation's. This always indicates duplicate keys in the
// reconciled regime relation and is fatal.
type CardinalityError struct {
	BaseRows   int
	OutputRows int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("JOIN_CARDINALITY_VIOLATION: output has %d rows, base has %d", e.OutputRows, e.BaseRows)
}

// IsCardinalityError reports whether err is a join cardinality violation.
func IsCardinalityError(err error) bool {
	var ce *CardinalityError
	return errors.As(err, &ce)
}

// LeftJoin joins other onto base by (code, year).
//
// Every base record appears in the output exactly once. When other has a
// matching key, its measurement fields are merged in; otherwise the base
// record passes through and the other-side fields stay missing. The
// country name on other is diagnostic only and is dropped before the join.
//
// The output row count always equals base's row count; a mismatch returns
// a CardinalityError.
func LeftJoin(base, other *relation.Relation) (*relation.Relation, error) {
	out := relation.New("state_year")

	for _, rec := range base.Records() {
		merged := rec.Clone()
		merged.Country = ""
		if match, ok := other.Get(rec.Code, rec.Year); ok {
			if merged.Fields == nil {
				merged.Fields = make(map[string]float64, len(match.Fields))
			}
			for name, v := range match.Fields {
				merged.Fields[name] = v
			}
		}
		if err := out.Append(merged); err != nil {
			return nil, fmt.Errorf("left join: %w", err)
		}
	}

	if out.Len() != base.Len() {
		return nil, &CardinalityError{BaseRows: base.Len(), OutputRows: out.Len()}
	}
	return out, nil
}
