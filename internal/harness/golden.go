package harness

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/cdwalton/stateyear/internal/relation"
)

// RenderTable serializes a relation as deterministic text for golden
// comparison: one line per record sorted by (code, year), field values
// sorted by name.
//
//	ccode,year,fields
//	100,1832,milex=5 polity=5
func RenderTable(rel *relation.Relation) []byte {
	var b bytes.Buffer
	b.WriteString("ccode,year,fields\n")
	for _, rec := range rel.Records() {
		b.WriteString(strconv.Itoa(rec.Code))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(rec.Year))
		b.WriteByte(',')
		for i, name := range rec.FieldNames() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(strconv.FormatFloat(rec.Fields[name], 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// RunWithGolden executes a scenario, evaluates its assertions, and
// compares the merged table against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	res, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %s failed: %v", s.Name, err)
	}
	for _, failure := range Check(s, res) {
		t.Error(failure)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, RenderTable(res.Table))
}
