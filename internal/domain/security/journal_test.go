package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestJournal_PushOrderAndCap ensures entries are newest-first and the
// oldest are evicted past capacity.
func TestJournal_PushOrderAndCap(t *testing.T) {
	t.Parallel()

	journal := NewJournal(nil)
	base := time.Unix(2000, 0)

	for i := 0; i < MaxLogEntries+10; i++ {
		journal.Push("entry", base.Add(time.Duration(i)*time.Second))
	}

	require.Equal(t, MaxLogEntries, journal.Len())

	entries := journal.Entries()
	require.Equal(t, base.Add(time.Duration(MaxLogEntries+9)*time.Second), entries[0].Time)
	require.Equal(t, base.Add(10*time.Second), entries[MaxLogEntries-1].Time)
}

// TestJournal_NoDeduplication ensures every push produces exactly one entry.
func TestJournal_NoDeduplication(t *testing.T) {
	t.Parallel()

	journal := NewJournal(nil)
	at := time.Unix(0, 0)

	journal.Push("same", at)
	journal.Push("same", at)
	journal.Push("same", at)

	require.Equal(t, 3, journal.Len())
}

// TestJournal_Clear empties the journal.
func TestJournal_Clear(t *testing.T) {
	t.Parallel()

	journal := NewJournal([]LogEntry{
		{Message: "old", Time: time.Unix(1, 0)},
	})
	require.Equal(t, 1, journal.Len())

	journal.Clear()
	require.Equal(t, 0, journal.Len())
	require.Empty(t, journal.Entries())
}

// TestNewJournal_TruncatesToCapacity guards against oversized persisted logs.
func TestNewJournal_TruncatesToCapacity(t *testing.T) {
	t.Parallel()

	oversized := make([]LogEntry, MaxLogEntries+50)
	for i := range oversized {
		oversized[i] = LogEntry{Message: "persisted", Time: time.Unix(int64(i), 0)}
	}

	journal := NewJournal(oversized)
	require.Equal(t, MaxLogEntries, journal.Len())

	// The newest (front) entries survive.
	require.Equal(t, oversized[0], journal.Entries()[0])
}

// TestJournal_EntriesIsACopy ensures callers cannot mutate internal state.
func TestJournal_EntriesIsACopy(t *testing.T) {
	t.Parallel()

	journal := NewJournal(nil)
	journal.Push("original", time.Unix(5, 0))

	entries := journal.Entries()
	entries[0].Message = "mutated"

	require.Equal(t, "original", journal.Entries()[0].Message)
}
