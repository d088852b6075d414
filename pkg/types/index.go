package types

import "sort"

// Index is the in-memory implementor table: a mapping from fully-qualified
// trait path to the ordered list of implementor records discovered for it.
// Record order within a trait is preserved exactly; trait key order carries
// no meaning and is sorted wherever deterministic output is required.
type Index map[string][]ImplementorRecord

// NewIndex returns an empty index ready for Add calls.
func NewIndex() Index {
	return make(Index)
}

// Add appends a record to the trait's list, preserving insertion order.
func (ix Index) Add(trait string, rec ImplementorRecord) {
	ix[trait] = append(ix[trait], rec)
}

// Lookup returns a copy of the trait's record list in stored order.
// The second return is false when the trait is not present.
func (ix Index) Lookup(trait string) ([]ImplementorRecord, bool) {
	recs, ok := ix[trait]
	if !ok {
		return nil, false
	}
	out := make([]ImplementorRecord, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out, true
}

// Traits returns all trait paths in the index, sorted.
func (ix Index) Traits() []string {
	names := make([]string, 0, len(ix))
	for name := range ix {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of records across all traits.
func (ix Index) Len() int {
	n := 0
	for _, recs := range ix {
		n += len(recs)
	}
	return n
}

// Clone returns a deep copy of the index. Mutating the copy never affects
// the original; hand-off consumers rely on this.
func (ix Index) Clone() Index {
	cp := make(Index, len(ix))
	for name, recs := range ix {
		out := make([]ImplementorRecord, len(recs))
		for i, r := range recs {
			out[i] = r.Clone()
		}
		cp[name] = out
	}
	return cp
}

// Equal reports whether two indexes hold the same traits with the same
// records in the same order.
func (ix Index) Equal(other Index) bool {
	if len(ix) != len(other) {
		return false
	}
	for name, recs := range ix {
		theirs, ok := other[name]
		if !ok || len(theirs) != len(recs) {
			return false
		}
		for i := range recs {
			if !recs[i].Equal(theirs[i]) {
				return false
			}
		}
	}
	return true
}
