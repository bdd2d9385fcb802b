package player

import (
	"encoding/json"
	"sync"
)

// PlayerStatistics tracks player activity for the session summary.
type PlayerStatistics struct {
	TotalKills      int            `json:"total_kills"`
	MobKills        map[string]int `json:"mob_kills"`        // target -> count
	GoldAccumulated int64          `json:"gold_accumulated"` // Lifetime gold earned
	QuestsCompleted int            `json:"quests_completed"`
	mu              sync.RWMutex
}

// NewPlayerStatistics creates a new statistics tracker.
func NewPlayerStatistics() *PlayerStatistics {
	return &PlayerStatistics{
		MobKills: make(map[string]int),
	}
}

// RecordKill increments kill counts.
func (s *PlayerStatistics) RecordKill(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalKills++
	if s.MobKills == nil {
		s.MobKills = make(map[string]int)
	}
	s.MobKills[target]++
}

// RecordGoldEarned adds to lifetime gold earned.
func (s *PlayerStatistics) RecordGoldEarned(amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GoldAccumulated += int64(amount)
}

// RecordQuestCompleted increments quest completion count.
func (s *PlayerStatistics) RecordQuestCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.QuestsCompleted++
}

// GetTotalKills returns total kill count.
func (s *PlayerStatistics) GetTotalKills() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TotalKills
}

// GetQuestsCompleted returns the number of turn-ins.
func (s *PlayerStatistics) GetQuestsCompleted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.QuestsCompleted
}

// ToJSON serializes statistics to JSON.
func (s *PlayerStatistics) ToJSON() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}
