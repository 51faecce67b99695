package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRejectsDuplicateKey(t *testing.T) {
	rel := New("regime")

	err := rel.Append(Record{Code: 100, Year: 1832})
	require.NoError(t, err)

	err = rel.Append(Record{Code: 100, Year: 1832, Country: "Colombia"})
	require.Error(t, err)

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, Key{Code: 100, Year: 1832}, dup.Key)
	assert.Equal(t, "regime", dup.Relation)

	// Failed append must not clobber the stored record.
	rec, ok := rel.Get(100, 1832)
	require.True(t, ok)
	assert.Empty(t, rec.Country)
	assert.Equal(t, 1, rel.Len())
}

func TestFromRecords(t *testing.T) {
	rel, err := FromRecords("capability", []Record{
		{Code: 2, Year: 1900},
		{Code: 2, Year: 1901},
		{Code: 200, Year: 1900},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, rel.Len())

	_, err = FromRecords("capability", []Record{
		{Code: 2, Year: 1900},
		{Code: 2, Year: 1900},
	})
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
}

func TestCodesAndYearsAreSorted(t *testing.T) {
	rel, err := FromRecords("regime", []Record{
		{Code: 365, Year: 1950},
		{Code: 2, Year: 1900},
		{Code: 365, Year: 1922},
		{Code: 100, Year: 1832},
		{Code: 365, Year: 1923},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 100, 365}, rel.Codes())
	assert.Equal(t, []int{1922, 1923, 1950}, rel.Years(365))
	assert.Empty(t, rel.Years(999))
}

func TestRecordsSortedByCodeThenYear(t *testing.T) {
	rel, err := FromRecords("regime", []Record{
		{Code: 100, Year: 1900},
		{Code: 2, Year: 1950},
		{Code: 2, Year: 1900},
		{Code: 100, Year: 1832},
	})
	require.NoError(t, err)

	recs := rel.Records()
	keys := make([]Key, len(recs))
	for i, rec := range recs {
		keys[i] = rec.Key()
	}
	assert.Equal(t, []Key{
		{Code: 2, Year: 1900},
		{Code: 2, Year: 1950},
		{Code: 100, Year: 1832},
		{Code: 100, Year: 1900},
	}, keys)
}

func TestDelete(t *testing.T) {
	rel, err := FromRecords("regime", []Record{
		{Code: 99, Year: 1832},
		{Code: 100, Year: 1832},
	})
	require.NoError(t, err)

	assert.True(t, rel.Delete(99, 1832))
	assert.False(t, rel.Delete(99, 1832))
	assert.False(t, rel.Has(99, 1832))
	assert.Equal(t, 1, rel.Len())
}

func TestCloneIsDeep(t *testing.T) {
	rel, err := FromRecords("regime", []Record{
		{Code: 2, Year: 1900, Fields: map[string]float64{"polity": 8}},
	})
	require.NoError(t, err)

	clone := rel.Clone()
	rec, ok := clone.Get(2, 1900)
	require.True(t, ok)
	rec.Fields["polity"] = -5

	orig, ok := rel.Get(2, 1900)
	require.True(t, ok)
	assert.Equal(t, 8.0, orig.Fields["polity"])
}

func TestRecordClone(t *testing.T) {
	rec := Record{Code: 2, Year: 1900, Fields: map[string]float64{"milex": 10}}
	c := rec.Clone()
	c.Fields["milex"] = 20
	assert.Equal(t, 10.0, rec.Fields["milex"])

	// Nil fields stay nil.
	assert.Nil(t, Record{Code: 2, Year: 1901}.Clone().Fields)
}

func TestFieldNames(t *testing.T) {
	rec := Record{Fields: map[string]float64{"polity": 5, "autoc": 1, "democ": 6}}
	assert.Equal(t, []string{"autoc", "democ", "polity"}, rec.FieldNames())
}
