package reconcile

import (
	"fmt"

	"github.com/cdwalton/stateyear/internal/relation"
)

// CodesOnlyIn returns the sorted codes present in a's code space but never
// in b's. Used diagnostically to enumerate regime-scheme codes with no
// counterpart in the capability scheme.
func CodesOnlyIn(a, b *relation.Relation) []int {
	inB := make(map[int]bool)
	for _, c := range b.Codes() {
		inB[c] = true
	}
	var only []int
	for _, c := range a.Codes() {
		if !inB[c] {
			only = append(only, c)
		}
	}
	return only
}

// Overlap returns the sub-relation of rel holding all records of code1 or
// code2 restricted to years in which both codes have at least one record.
//
// An empty result is common and not an error: most rival code pairs never
// coexist, or stop coexisting once a drop rule has run.
func Overlap(code1, code2 int, rel *relation.Relation) *relation.Relation {
	shared := make(map[int]bool)
	years2 := make(map[int]bool)
	for _, y := range rel.Years(code2) {
		years2[y] = true
	}
	for _, y := range rel.Years(code1) {
		if years2[y] {
			shared[y] = true
		}
	}

	out := relation.New(fmt.Sprintf("overlap(%d,%d)", code1, code2))
	for _, rec := range rel.Records() {
		if rec.Code != code1 && rec.Code != code2 {
			continue
		}
		if !shared[rec.Year] {
			continue
		}
		// Keys come from a relation, so appends cannot collide.
		if err := out.Append(rec.Clone()); err != nil {
			panic(err)
		}
	}
	return out
}
