package thesis

import "time"

// Decision is what the dedup table says about a new candidate
type Decision int

const (
	// DecisionCopy means no file with this key has been retained yet
	DecisionCopy Decision = iota
	// DecisionReplace means the candidate is newer than the retained copy
	DecisionReplace
	// DecisionDiscard means the retained copy is at least as new
	DecisionDiscard
)

func (d Decision) String() string {
	switch d {
	case DecisionCopy:
		return "copy"
	case DecisionReplace:
		return "replace"
	default:
		return "discard"
	}
}

// Entry is the retained copy for one name key
type Entry struct {
	Source  string
	Dest    string
	ModTime time.Time
}

// DedupTable maps name keys to the retained copy. It lives for a single run and
// is only touched by the worker goroutine.
type DedupTable struct {
	entries map[string]Entry
}

// NewDedupTable returns an empty table
func NewDedupTable() *DedupTable {
	return &DedupTable{entries: make(map[string]Entry)}
}

// Decide compares a candidate's modification time with the retained entry.
// Only a strictly newer candidate replaces the entry.
func (t *DedupTable) Decide(key string, modTime time.Time) (Decision, Entry) {
	prev, ok := t.entries[key]
	switch {
	case !ok:
		return DecisionCopy, Entry{}
	case modTime.After(prev.ModTime):
		return DecisionReplace, prev
	default:
		return DecisionDiscard, prev
	}
}

// Lookup returns the retained entry for key
func (t *DedupTable) Lookup(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Record stores e as the retained copy for key
func (t *DedupTable) Record(key string, e Entry) {
	t.entries[key] = e
}

// Forget drops the entry for key, used when the retained copy no longer exists
func (t *DedupTable) Forget(key string) {
	delete(t.entries, key)
}

// Len returns the number of retained entries
func (t *DedupTable) Len() int {
	return len(t.entries)
}
