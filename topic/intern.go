package topic

import "sync"

// InternTable maps a canonical topic value to a shared Topic instance so
// equal topics compare reference-equal and are stored once. Concurrent
// Intern/Clear calls are safe; no ordering guarantees are made.
type InternTable struct {
	mu    sync.RWMutex
	table map[string]*Topic
}

// NewInternTable creates an empty, independently-locked intern table.
// Most callers should use the process-wide Default table instead; a
// dedicated table is useful for test isolation or running more than one
// engine with separate topic namespaces in the same process.
func NewInternTable() *InternTable {
	return &InternTable{table: make(map[string]*Topic)}
}

// Intern parses s and returns the shared Topic for its canonical value,
// inserting a freshly parsed one if this is the first time that value
// has been seen.
func (it *InternTable) Intern(s string) (*Topic, error) {
	parsed, err := Parse(s)
	if err != nil {
		return nil, err
	}

	it.mu.RLock()
	existing, ok := it.table[parsed.value]
	it.mu.RUnlock()
	if ok {
		return existing, nil
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	if existing, ok := it.table[parsed.value]; ok {
		return existing, nil
	}
	it.table[parsed.value] = &parsed
	return &parsed, nil
}

// Clear empties the table. Idempotent; previously returned *Topic values
// remain valid (topics are immutable) but are no longer deduplicated
// against.
func (it *InternTable) Clear() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.table = make(map[string]*Topic)
}

// Len returns the number of distinct interned topic values.
func (it *InternTable) Len() int {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return len(it.table)
}

// Default is the process-wide intern table used by package-level Intern
// and Clear.
var Default = NewInternTable()

// Intern interns s in the Default table.
func Intern(s string) (*Topic, error) {
	return Default.Intern(s)
}

// Clear empties the Default table. Exposed mainly for test isolation;
// do not rely on automatic teardown ordering between tests.
func Clear() {
	Default.Clear()
}
