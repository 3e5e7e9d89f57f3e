package security

import "time"

// MaxLogEntries is the journal capacity. Oldest entries are evicted first.
const MaxLogEntries = 200

// LogEntry is a single human-readable journal line. Immutable once created.
type LogEntry struct {
	// Message is the journal line text.
	Message string `json:"message"`
	// Time is when the entry was recorded.
	Time time.Time `json:"time"`
}

// Journal is the append-only, capacity-bounded panel log,
// most recent entry first.
type Journal struct {
	// entries holds the log lines, newest at index 0.
	entries []LogEntry
}

// NewJournal creates a journal pre-filled with existing entries,
// truncated to capacity. Entries are assumed newest-first.
func NewJournal(entries []LogEntry) *Journal {
	j := &Journal{
		entries: make([]LogEntry, 0, min(len(entries), MaxLogEntries)),
	}
	j.entries = append(j.entries, entries[:min(len(entries), MaxLogEntries)]...)

	return j
}

// Push prepends an entry and evicts the oldest beyond MaxLogEntries.
// Every call produces exactly one entry; there is no deduplication.
func (j *Journal) Push(message string, at time.Time) {
	entries := make([]LogEntry, 0, len(j.entries)+1)
	entries = append(entries, LogEntry{Message: message, Time: at})
	entries = append(entries, j.entries...)

	if len(entries) > MaxLogEntries {
		entries = entries[:MaxLogEntries]
	}

	j.entries = entries
}

// Clear drops all entries.
func (j *Journal) Clear() {
	j.entries = nil
}

// Len returns the current number of entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Entries returns a copy of the journal, newest first.
func (j *Journal) Entries() []LogEntry {
	entries := make([]LogEntry, len(j.entries))
	copy(entries, j.entries)

	return entries
}
