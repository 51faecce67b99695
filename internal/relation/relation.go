package relation

import (
	"fmt"
	"sort"
)

// Key identifies one record: a country code in one coding scheme plus an
// observation year.
type Key struct {
	Code int `json:"code"`
	Year int `json:"year"`
}

func (k Key) String() string {
	return fmt.Sprintf("(%d, %d)", k.Code, k.Year)
}

// Record is one state-year observation.
//
// Fields holds the numeric measurements of the record's scheme. A missing
// measurement is an absent map key. Country is populated only on the regime
// scheme and is used for human inspection; it never reaches the merged
// output.
type Record struct {
	Code    int                `json:"code"`
	Year    int                `json:"year"`
	Country string             `json:"country,omitempty"`
	Fields  map[string]float64 `json:"fields,omitempty"`
}

// Key returns the record's (code, year) key.
func (r Record) Key() Key {
	return Key{Code: r.Code, Year: r.Year}
}

// Clone returns a deep copy of the record. The Fields map is copied so the
// clone can be mutated without aliasing the original.
func (r Record) Clone() Record {
	out := r
	if r.Fields != nil {
		out.Fields = make(map[string]float64, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// FieldNames returns the record's measurement field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DuplicateKeyError reports an attempt to insert a second record under an
// existing (code, year) key.
type DuplicateKeyError struct {
	Relation string
	Key      Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("relation %q: duplicate key %s", e.Relation, e.Key)
}

// Relation is a set of Records unique by (code, year).
//
// The zero value is not usable; construct with New. Relations are not safe
// for concurrent mutation; the pipeline is strictly sequential.
type Relation struct {
	name    string
	records map[Key]Record
}

// New creates an empty relation. The name appears in error messages and
// diagnostics only.
func New(name string) *Relation {
	return &Relation{
		name:    name,
		records: make(map[Key]Record),
	}
}

// FromRecords builds a relation from a slice of records.
// Returns a DuplicateKeyError if two records share a key.
func FromRecords(name string, recs []Record) (*Relation, error) {
	rel := New(name)
	for _, rec := range recs {
		if err := rel.Append(rec); err != nil {
			return nil, err
		}
	}
	return rel, nil
}

// Name returns the relation's diagnostic name.
func (r *Relation) Name() string {
	return r.name
}

// Len returns the number of records.
func (r *Relation) Len() int {
	return len(r.records)
}

// Append inserts a record. Returns a DuplicateKeyError if the key is
// already present; the relation is unchanged in that case.
func (r *Relation) Append(rec Record) error {
	k := rec.Key()
	if _, exists := r.records[k]; exists {
		return &DuplicateKeyError{Relation: r.name, Key: k}
	}
	r.records[k] = rec
	return nil
}

// Get returns the record at (code, year), if present.
func (r *Relation) Get(code, year int) (Record, bool) {
	rec, ok := r.records[Key{Code: code, Year: year}]
	return rec, ok
}

// Has reports whether a record exists at (code, year).
func (r *Relation) Has(code, year int) bool {
	_, ok := r.records[Key{Code: code, Year: year}]
	return ok
}

// Delete removes the record at (code, year). Returns true if a record was
// removed.
func (r *Relation) Delete(code, year int) bool {
	k := Key{Code: code, Year: year}
	if _, ok := r.records[k]; !ok {
		return false
	}
	delete(r.records, k)
	return true
}

// Codes returns the sorted set of distinct codes present in the relation.
func (r *Relation) Codes() []int {
	seen := make(map[int]bool)
	for k := range r.records {
		seen[k.Code] = true
	}
	codes := make([]int, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// Years returns the sorted years for which the given code has a record.
// Returns an empty slice for a code with no records.
func (r *Relation) Years(code int) []int {
	var years []int
	for k := range r.records {
		if k.Code == code {
			years = append(years, k.Year)
		}
	}
	sort.Ints(years)
	return years
}

// Records returns all records sorted by (code, year). The returned slice
// holds copies of the stored records' struct values; the Fields maps are
// shared, so callers that mutate fields must Clone first.
func (r *Relation) Records() []Record {
	recs := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Code != recs[j].Code {
			return recs[i].Code < recs[j].Code
		}
		return recs[i].Year < recs[j].Year
	})
	return recs
}

// Clone returns a deep copy of the relation.
func (r *Relation) Clone() *Relation {
	out := New(r.name)
	for k, rec := range r.records {
		out.records[k] = rec.Clone()
	}
	return out
}
