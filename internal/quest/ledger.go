package quest

import (
	"sync"
	"time"
)

// CompletionRecord tracks how often, and when, a quest was turned in.
type CompletionRecord struct {
	QuestID          string    `json:"quest_id"`
	CompletionCount  int       `json:"completion_count"`
	FirstCompletedAt time.Time `json:"first_completed_at"`
	LastCompletedAt  time.Time `json:"last_completed_at"`
	IsRepeatable     bool      `json:"is_repeatable"`
}

// Ledger is the completion history for one player. Records are never removed.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]*CompletionRecord
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		records: make(map[string]*CompletionRecord),
	}
}

// RecordCompletion increments the count for a quest and stamps the timestamps.
// isRepeatable is recorded when the record is created and kept afterwards.
// It returns a copy of the updated record.
func (l *Ledger) RecordCompletion(questID string, isRepeatable bool, at time.Time) CompletionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, exists := l.records[questID]
	if !exists {
		rec = &CompletionRecord{
			QuestID:          questID,
			FirstCompletedAt: at,
			IsRepeatable:     isRepeatable,
		}
		l.records[questID] = rec
	}
	rec.CompletionCount++
	rec.LastCompletedAt = at

	return *rec
}

// Count returns the completion count for a quest (0 if never completed)
func (l *Ledger) Count(questID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if rec, exists := l.records[questID]; exists {
		return rec.CompletionCount
	}
	return 0
}

// Get returns a copy of the record for a quest
func (l *Ledger) Get(questID string) (CompletionRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, exists := l.records[questID]
	if !exists {
		return CompletionRecord{}, false
	}
	return *rec, true
}

// QuestIDs returns every quest ID with at least one completion
func (l *Ledger) QuestIDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.records))
	for id := range l.records {
		ids = append(ids, id)
	}
	return ids
}
