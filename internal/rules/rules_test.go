package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueIsWellOrdered(t *testing.T) {
	require.NoError(t, CheckOrder(Catalogue()))
}

func TestCatalogueGoldenValues(t *testing.T) {
	cat := Catalogue()
	byID := make(map[string]Rule, len(cat))
	order := make([]string, len(cat))
	for i, r := range cat {
		byID[r.ID] = r
		order[i] = r.ID
	}

	assert.Equal(t, []string{
		"gran-colombia-merge",
		"italy-unification",
		"yugoslavia-merge",
		"montenegro-kosovo-swap",
		"soviet-union-formation",
		"sudan-partition",
		"south-sudan-recode",
		"pakistan-renumbering",
		"vietnam-unification",
		"austria-hungary-backfill",
	}, order)

	gc := byID["gran-colombia-merge"]
	assert.Equal(t, ModeRecodeWithDrop, gc.Mode)
	assert.Equal(t, []int{99}, gc.Sources)
	assert.Equal(t, 100, gc.Target)
	assert.Equal(t, []Drop{{Code: 99, Year: 1832, Keep: 100}}, gc.Drops)

	it := byID["italy-unification"]
	assert.Equal(t, []int{324}, it.Sources)
	assert.Equal(t, 325, it.Target)
	assert.Equal(t, []Drop{{Code: 324, Year: 1861, Keep: 325}}, it.Drops)

	yu := byID["yugoslavia-merge"]
	assert.Equal(t, []int{342, 347}, yu.Sources)
	assert.Equal(t, 345, yu.Target)
	assert.Equal(t, []Drop{
		{Code: 347, Year: 1991, Keep: 342},
		{Code: 347, Year: 2006, Keep: 342},
	}, yu.Drops)

	sw := byID["montenegro-kosovo-swap"]
	assert.Equal(t, ModeSwap, sw.Mode)
	assert.Equal(t, map[int]int{341: 347, 347: 341, 348: 341}, sw.Mapping)
	assert.Equal(t, []string{"yugoslavia-merge"}, sw.After)

	su := byID["soviet-union-formation"]
	assert.Equal(t, []Drop{{Code: 364, Year: 1922, Keep: 365}}, su.Drops)
	assert.Equal(t, 365, su.Target)

	sd := byID["sudan-partition"]
	assert.Equal(t, []int{626}, sd.Sources)
	assert.Equal(t, 625, sd.Target)
	assert.Equal(t, []Drop{{Code: 626, Year: 2011, Keep: 625}}, sd.Drops)

	ss := byID["south-sudan-recode"]
	assert.Equal(t, ModeDirectRecode, ss.Mode)
	assert.Equal(t, []int{525}, ss.Sources)
	assert.Equal(t, 626, ss.Target)
	assert.Equal(t, []string{"sudan-partition"}, ss.After)

	pk := byID["pakistan-renumbering"]
	assert.Equal(t, ModeDirectRecode, pk.Mode)
	assert.Equal(t, []int{769}, pk.Sources)
	assert.Equal(t, 770, pk.Target)

	vn := byID["vietnam-unification"]
	assert.Equal(t, []int{818}, vn.Sources)
	assert.Equal(t, 816, vn.Target)
	assert.Equal(t, []Drop{{Code: 818, Year: 1976, Keep: 816}}, vn.Drops)

	ah := byID["austria-hungary-backfill"]
	assert.Equal(t, ModeCopyForward, ah.Mode)
	assert.Equal(t, 305, ah.Donor)
	assert.Equal(t, 300, ah.Target)
}

func TestCatalogueReturnsFreshCopies(t *testing.T) {
	first := Catalogue()
	first[3].Mapping[341] = 999
	first[2].Drops[0].Year = 1900

	second := Catalogue()
	assert.Equal(t, 347, second[3].Mapping[341])
	assert.Equal(t, 1991, second[2].Drops[0].Year)
}

func TestCheckOrderRejectsSwapBeforeMerge(t *testing.T) {
	cat := Catalogue()
	// Move the swap in front of the Yugoslavia merge.
	reordered := make([]Rule, 0, len(cat))
	var swap, merge Rule
	for _, r := range cat {
		switch r.ID {
		case "montenegro-kosovo-swap":
			swap = r
		case "yugoslavia-merge":
			merge = r
		default:
			reordered = append(reordered, r)
		}
	}
	reordered = append([]Rule{swap, merge}, reordered...)

	err := CheckOrder(reordered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "montenegro-kosovo-swap")
	assert.Contains(t, err.Error(), "yugoslavia-merge")
}

func TestCheckOrderRejectsDuplicateID(t *testing.T) {
	seq := []Rule{
		{ID: "a", Mode: ModeDirectRecode, Sources: []int{1}, Target: 2},
		{ID: "a", Mode: ModeDirectRecode, Sources: []int{3}, Target: 4},
	}
	err := CheckOrder(seq)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule id")
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{
			name:    "empty id",
			rule:    Rule{Mode: ModeDirectRecode, Sources: []int{1}, Target: 2},
			wantErr: "empty id",
		},
		{
			name:    "invalid mode",
			rule:    Rule{ID: "x", Mode: Mode("merge")},
			wantErr: "invalid mode",
		},
		{
			name:    "direct recode without sources",
			rule:    Rule{ID: "x", Mode: ModeDirectRecode, Target: 2},
			wantErr: "at least one source",
		},
		{
			name:    "recode-with-drop without drops",
			rule:    Rule{ID: "x", Mode: ModeRecodeWithDrop, Sources: []int{1}, Target: 2},
			wantErr: "at least one drop",
		},
		{
			name:    "copy-forward without donor",
			rule:    Rule{ID: "x", Mode: ModeCopyForward, Target: 300},
			wantErr: "donor",
		},
		{
			name:    "swap without mapping",
			rule:    Rule{ID: "x", Mode: ModeSwap},
			wantErr: "non-empty mapping",
		},
		{
			name: "valid swap",
			rule: Rule{ID: "x", Mode: ModeSwap, Mapping: map[int]int{1: 2, 2: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestByID(t *testing.T) {
	r, ok := ByID("vietnam-unification")
	require.True(t, ok)
	assert.Equal(t, 816, r.Target)

	_, ok = ByID("no-such-rule")
	assert.False(t, ok)
}
