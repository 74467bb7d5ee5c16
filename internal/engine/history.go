package engine

import (
	"sync"
	"time"
)

const eventHistoryLimit = 128

// EventRecord describes one handled event.
type EventRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Error     string    `json:"error,omitempty"`
}

type eventLog struct {
	mu      sync.Mutex
	entries []EventRecord
	limit   int
}

func newEventLog(limit int) *eventLog {
	if limit <= 0 {
		limit = eventHistoryLimit
	}
	return &eventLog{limit: limit}
}

func (l *eventLog) record(entry EventRecord) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == l.limit {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.limit-1]
	}
	l.entries = append(l.entries, entry)
}

func (l *eventLog) snapshot() []EventRecord {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	return append([]EventRecord(nil), l.entries...)
}
