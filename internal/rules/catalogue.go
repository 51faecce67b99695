package rules

// Catalogue returns the built-in reconciliation catalogue in application
// order. The values are a golden contract against the historical record of
// code transitions between the two schemes; do not derive or "fix" them.
//
// Ordering dependencies are declared on the rules themselves, but two are
// worth spelling out:
//
//   - montenegro-kosovo-swap must follow yugoslavia-merge. Both touch code
//     347; swapping before the Yugoslavia-family merge would relabel
//     federal-era observations as Kosovo.
//   - south-sudan-recode must follow sudan-partition, which frees code 626.
//
// The returned slice and its rules are fresh copies; callers may reorder or
// filter without affecting later calls.
func Catalogue() []Rule {
	src := []Rule{
		{
			ID:      "gran-colombia-merge",
			Entity:  "Gran Colombia -> Colombia",
			Mode:    ModeRecodeWithDrop,
			Sources: []int{99},
			Target:  100,
			Drops:   []Drop{{Code: 99, Year: 1832, Keep: 100}},
		},
		{
			ID:      "italy-unification",
			Entity:  "Sardinia -> Italy",
			Mode:    ModeRecodeWithDrop,
			Sources: []int{324},
			Target:  325,
			Drops:   []Drop{{Code: 324, Year: 1861, Keep: 325}},
		},
		{
			ID:      "yugoslavia-merge",
			Entity:  "Serbia / Serbia and Montenegro -> Yugoslavia",
			Mode:    ModeRecodeWithDrop,
			Sources: []int{342, 347},
			Target:  345,
			// In both transition years the regime scheme carries rival
			// rows under 342 and 347; the 342 observations survive.
			Drops: []Drop{
				{Code: 347, Year: 1991, Keep: 342},
				{Code: 347, Year: 2006, Keep: 342},
			},
		},
		{
			ID:     "montenegro-kosovo-swap",
			Entity: "Montenegro / Kosovo code swap",
			Mode:   ModeSwap,
			// Simultaneous relabeling: 341 and 347 trade places and 348
			// folds into 341. Applied from one snapshot of the code
			// column, never sequentially.
			Mapping: map[int]int{341: 347, 347: 341, 348: 341},
			After:   []string{"yugoslavia-merge"},
		},
		{
			ID:      "soviet-union-formation",
			Entity:  "Russia -> USSR",
			Mode:    ModeRecodeWithDrop,
			Sources: []int{364},
			Target:  365,
			Drops:   []Drop{{Code: 364, Year: 1922, Keep: 365}},
		},
		{
			ID:      "sudan-partition",
			Entity:  "Sudan partition merge-back",
			Mode:    ModeRecodeWithDrop,
			Sources: []int{626},
			Target:  625,
			Drops:   []Drop{{Code: 626, Year: 2011, Keep: 625}},
		},
		{
			ID:      "south-sudan-recode",
			Entity:  "South Sudan renumbering",
			Mode:    ModeDirectRecode,
			Sources: []int{525},
			Target:  626,
			After:   []string{"sudan-partition"},
		},
		{
			ID:      "pakistan-renumbering",
			Entity:  "Pakistan code unification",
			Mode:    ModeDirectRecode,
			Sources: []int{769},
			Target:  770,
		},
		{
			ID:      "vietnam-unification",
			Entity:  "Vietnam unification",
			Mode:    ModeRecodeWithDrop,
			Sources: []int{818},
			Target:  816,
			// The 1976 rows carry identical values on both sides; the
			// drop exists only to keep (code, year) unique.
			Drops: []Drop{{Code: 818, Year: 1976, Keep: 816}},
		},
		{
			ID:     "austria-hungary-backfill",
			Entity: "Austria-Hungary backfill from Austria",
			Mode:   ModeCopyForward,
			Donor:  305,
			Target: 300,
		},
	}

	out := make([]Rule, len(src))
	for i, r := range src {
		out[i] = cloneRule(r)
	}
	return out
}

// ByID returns the catalogue rule with the given ID.
func ByID(id string) (Rule, bool) {
	for _, r := range Catalogue() {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

func cloneRule(r Rule) Rule {
	out := r
	if r.Sources != nil {
		out.Sources = append([]int(nil), r.Sources...)
	}
	if r.Drops != nil {
		out.Drops = append([]Drop(nil), r.Drops...)
	}
	if r.After != nil {
		out.After = append([]string(nil), r.After...)
	}
	if r.Mapping != nil {
		out.Mapping = make(map[int]int, len(r.Mapping))
		for k, v := range r.Mapping {
			out.Mapping[k] = v
		}
	}
	return out
}
