package memory

import (
	"context"
	"sync"

	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
)

// CommandLog keeps per-operator command history in memory, newest first,
// capped like the Redis list.
type CommandLog struct {
	mu      sync.Mutex
	entries map[string][]ocpp.HistoryEntry
	cap     int
}

// NewCommandLog creates a command log capped at max entries per operator.
func NewCommandLog(max int) *CommandLog {
	if max <= 0 {
		max = 50
	}
	return &CommandLog{entries: make(map[string][]ocpp.HistoryEntry), cap: max}
}

func (l *CommandLog) Append(_ context.Context, userID string, entry ocpp.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := append([]ocpp.HistoryEntry{entry}, l.entries[userID]...)
	if len(list) > l.cap {
		list = list[:l.cap]
	}
	l.entries[userID] = list
	return nil
}

func (l *CommandLog) Update(_ context.Context, userID string, entry ocpp.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.entries[userID]
	for i := range list {
		if list[i].ID == entry.ID {
			list[i] = entry
			return nil
		}
	}
	return nil
}

func (l *CommandLog) Recent(_ context.Context, userID string, limit int) ([]ocpp.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.entries[userID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make([]ocpp.HistoryEntry, limit)
	copy(out, list[:limit])
	return out, nil
}
