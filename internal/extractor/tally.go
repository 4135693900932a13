package extractor

// TallyKey identifies one (sourceName, record type) bucket of the summary
// tally.
type TallyKey struct {
	SourceName string
	Type       string
}

// TallyEntry is one tally bucket with its count.
type TallyEntry struct {
	Key   TallyKey
	Count int
}

// Tally counts classified records per (sourceName, type). Iteration order is
// insertion order, first-seen key first.
type Tally struct {
	keys   []TallyKey
	counts map[TallyKey]int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[TallyKey]int)}
}

// Add increments the count for key, registering it on first sight.
func (t *Tally) Add(key TallyKey) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

// Entries returns all buckets in insertion order.
func (t *Tally) Entries() []TallyEntry {
	entries := make([]TallyEntry, 0, len(t.keys))
	for _, key := range t.keys {
		entries = append(entries, TallyEntry{Key: key, Count: t.counts[key]})
	}
	return entries
}
