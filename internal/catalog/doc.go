// Package catalog compiles reconciliation rule catalogues written in CUE.
//
// The built-in catalogue (internal/rules) is Go static data and needs no
// compilation; CUE is the authoring surface for replacement catalogues,
// e.g. when a new dataset revision retires or renumbers codes. A CUE
// catalogue is unified with the embedded schema, checked for concreteness,
// decoded into typed rule records, and then validated with the same
// mode-specific and ordering checks the built-in catalogue passes.
//
// Catalogue format:
//
//	rules: [
//		{
//			id:      "gran-colombia-merge"
//			entity:  "Gran Colombia -> Colombia"
//			mode:    "recode-with-drop"
//			sources: [99]
//			target:  100
//			drops: [{code: 99, year: 1832, keep: 100}]
//		},
//		{
//			id:      "montenegro-kosovo-swap"
//			entity:  "Montenegro / Kosovo code swap"
//			mode:    "swap"
//			mapping: {"341": 347, "347": 341, "348": 341}
//			after: ["yugoslavia-merge"]
//		},
//	]
//
// Mapping keys are strings because CUE struct labels are strings; they
// must parse as integers.
package catalog
