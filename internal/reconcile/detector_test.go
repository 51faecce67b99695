package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdwalton/stateyear/internal/relation"
)

func rel(t *testing.T, name string, recs ...relation.Record) *relation.Relation {
	t.Helper()
	r, err := relation.FromRecords(name, recs)
	require.NoError(t, err)
	return r
}

func TestCodesOnlyIn(t *testing.T) {
	regime := rel(t, "regime",
		relation.Record{Code: 99, Year: 1831},
		relation.Record{Code: 100, Year: 1831},
		relation.Record{Code: 525, Year: 2012},
	)
	capability := rel(t, "capability",
		relation.Record{Code: 100, Year: 1831},
		relation.Record{Code: 2, Year: 1831},
	)

	assert.Equal(t, []int{99, 525}, CodesOnlyIn(regime, capability))
	assert.Equal(t, []int{2}, CodesOnlyIn(capability, regime))
}

func TestCodesOnlyIn_NoDifference(t *testing.T) {
	a := rel(t, "a", relation.Record{Code: 2, Year: 1900})
	b := rel(t, "b", relation.Record{Code: 2, Year: 1950})
	assert.Empty(t, CodesOnlyIn(a, b))
}

func TestOverlap(t *testing.T) {
	regime := rel(t, "regime",
		relation.Record{Code: 342, Year: 1990},
		relation.Record{Code: 342, Year: 1991},
		relation.Record{Code: 342, Year: 2006},
		relation.Record{Code: 347, Year: 1991},
		relation.Record{Code: 347, Year: 2006},
		relation.Record{Code: 347, Year: 2007},
		relation.Record{Code: 2, Year: 1991},
	)

	ov := Overlap(342, 347, regime)
	assert.Equal(t, 4, ov.Len())
	assert.True(t, ov.Has(342, 1991))
	assert.True(t, ov.Has(347, 1991))
	assert.True(t, ov.Has(342, 2006))
	assert.True(t, ov.Has(347, 2006))
	// Years where only one side reports are excluded, as are other codes.
	assert.False(t, ov.Has(342, 1990))
	assert.False(t, ov.Has(347, 2007))
	assert.False(t, ov.Has(2, 1991))
}

func TestOverlap_ZeroOverlapIsEmptyNotError(t *testing.T) {
	regime := rel(t, "regime",
		relation.Record{Code: 769, Year: 1950},
		relation.Record{Code: 770, Year: 1972},
	)
	ov := Overlap(769, 770, regime)
	assert.Equal(t, 0, ov.Len())
}

func TestOverlap_FullOverlap(t *testing.T) {
	regime := rel(t, "regime",
		relation.Record{Code: 816, Year: 1976},
		relation.Record{Code: 818, Year: 1976},
	)
	ov := Overlap(816, 818, regime)
	assert.Equal(t, 2, ov.Len())
}

func TestOverlap_CopiesRecords(t *testing.T) {
	regime := rel(t, "regime",
		relation.Record{Code: 1, Year: 1900, Fields: map[string]float64{"polity": 3}},
		relation.Record{Code: 2, Year: 1900, Fields: map[string]float64{"polity": 7}},
	)
	ov := Overlap(1, 2, regime)
	got, ok := ov.Get(1, 1900)
	require.True(t, ok)
	got.Fields["polity"] = -9

	orig, ok := regime.Get(1, 1900)
	require.True(t, ok)
	assert.Equal(t, 3.0, orig.Fields["polity"])
}
