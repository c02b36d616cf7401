package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
)

// CommandLog keeps each operator's recent OCPP dispatches in a capped
// Redis list, newest first.
type CommandLog struct {
	client redis.UniversalClient
	prefix string
	cap    int64
}

// NewCommandLog creates a command log capped at max entries per operator.
func NewCommandLog(client redis.UniversalClient, max int) *CommandLog {
	if max <= 0 {
		max = 50
	}
	return &CommandLog{client: client, prefix: "cmdlog:", cap: int64(max)}
}

func (l *CommandLog) key(userID string) string { return l.prefix + userID }

// Append pushes a new entry to the head of the operator's log and trims
// the tail past the cap.
func (l *CommandLog) Append(ctx context.Context, userID string, entry ocpp.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, l.key(userID), data)
	pipe.LTrim(ctx, l.key(userID), 0, l.cap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// Update rewrites the entry with the same ID in place. A trimmed-away
// entry is silently skipped; the dispatch outcome still reaches the page
// via the flash message.
func (l *CommandLog) Update(ctx context.Context, userID string, entry ocpp.HistoryEntry) error {
	items, err := l.client.LRange(ctx, l.key(userID), 0, l.cap-1).Result()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	for i, item := range items {
		var existing ocpp.HistoryEntry
		if json.Unmarshal([]byte(item), &existing) != nil {
			continue
		}
		if existing.ID != entry.ID {
			continue
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		if err := l.client.LSet(ctx, l.key(userID), int64(i), data).Err(); err != nil {
			return fmt.Errorf("update history entry: %w", err)
		}
		return nil
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *CommandLog) Recent(ctx context.Context, userID string, limit int) ([]ocpp.HistoryEntry, error) {
	if limit <= 0 || int64(limit) > l.cap {
		limit = int(l.cap)
	}

	items, err := l.client.LRange(ctx, l.key(userID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	entries := make([]ocpp.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry ocpp.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
