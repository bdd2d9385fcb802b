// Package questlog owns one player's quest journal: active and completed quests,
// the completion ledger, and the accept/progress/turn-in state machine.
package questlog

import (
	"sort"
	"sync"
	"time"

	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
)

// RewardDistributor grants the rewards for a turn-in (satisfied by *reward.Distributor).
type RewardDistributor interface {
	Distribute(questID string, completionCountBefore int) reward.Result
}

// TurnInResult is returned by a successful turn-in. Rewards may still report failures.
type TurnInResult struct {
	Instance        *quest.Instance
	Rewards         reward.Result
	FirstCompletion bool
	CompletionCount int
}

// Service is the only mutation entry point for a player's quest state.
// All methods are safe for concurrent use; mutations are serialized per Service.
type Service struct {
	mu sync.Mutex

	catalog  *quest.Catalog
	rewards  RewardDistributor
	ledger   *quest.Ledger
	notifier Notifier
	now      func() time.Time

	active      map[string]*quest.Instance
	activeOrder []string // Acceptance order
	completed   map[string]*quest.Instance
}

// Option configures a Service
type Option func(*Service)

// WithLedger uses an existing ledger instead of a fresh one
func WithLedger(ledger *quest.Ledger) Option {
	return func(s *Service) {
		s.ledger = ledger
	}
}

// WithNotifier sets the event receiver
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithClock overrides the time source used for ledger timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an empty journal backed by the catalog and reward distributor
func NewService(catalog *quest.Catalog, rewards RewardDistributor, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		rewards:   rewards,
		notifier:  NopNotifier{},
		now:       time.Now,
		active:    make(map[string]*quest.Instance),
		completed: make(map[string]*quest.Instance),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ledger == nil {
		s.ledger = quest.NewLedger()
	}
	return s
}

// Accept starts a quest. The objective set depends on whether the quest was completed before.
func (s *Service) Accept(questID string) (*quest.Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.catalog.Get(questID)
	if !ok {
		logger.Info("Quest accept rejected", "quest_id", questID, "reason", quest.CodeDefinitionNotFound)
		return nil, quest.NewDefinitionNotFound(questID)
	}

	if _, ok := s.active[questID]; ok {
		logger.Info("Quest accept rejected", "quest_id", questID, "reason", quest.CodeAlreadyActive)
		return nil, quest.NewAlreadyActive(questID)
	}

	count := s.ledger.Count(questID)
	if count > 0 && !def.IsRepeatable {
		logger.Info("Quest accept rejected", "quest_id", questID, "reason", quest.CodeAlreadyCompleted)
		return nil, quest.NewAlreadyCompleted(questID)
	}

	inst := quest.NewInstance(def, count)
	s.active[questID] = inst
	s.activeOrder = append(s.activeOrder, questID)

	logger.Info("Quest accepted", "quest_id", questID, "completion_count", count, "objectives", len(inst.Objectives))

	s.notifier.QuestAccepted(inst.Clone())
	if inst.ReadyToTurnIn {
		s.notifier.QuestReady(inst.Clone())
	}

	return inst.Clone(), nil
}

// RecordKill applies one "creature died" event to every active quest.
func (s *Service) RecordKill(target string) quest.ProgressResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := quest.ApplyProgress(s.activeInstances(), target)
	if len(result.Touched) == 0 {
		return result
	}

	logger.Debug("Quest progress", "target", target, "touched", len(result.Touched), "newly_ready", len(result.NewlyReady))

	s.notifier.QuestProgress(ProgressEvent{
		Target:     target,
		Touched:    len(result.Touched),
		NewlyReady: len(result.NewlyReady),
	})
	for _, inst := range result.NewlyReady {
		logger.Info("Quest ready to turn in", "quest_id", inst.ID)
		s.notifier.QuestReady(inst.Clone())
	}

	return cloneProgress(result)
}

// TurnIn completes a ready quest and distributes its rewards.
// Reward failures are reported in the result and never block the completion.
func (s *Service) TurnIn(questID string) (*TurnInResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.active[questID]
	if !ok {
		if _, known := s.catalog.Get(questID); !known {
			logger.Info("Quest turn-in rejected", "quest_id", questID, "reason", quest.CodeDefinitionNotFound)
			return nil, quest.NewDefinitionNotFound(questID)
		}
		logger.Info("Quest turn-in rejected", "quest_id", questID, "reason", quest.CodeNotActive)
		return nil, quest.NewNotActive(questID)
	}

	if !inst.ReadyToTurnIn {
		logger.Info("Quest turn-in rejected", "quest_id", questID, "reason", quest.CodeNotReady)
		return nil, quest.NewNotReady(questID)
	}

	countBefore := s.ledger.Count(questID)
	rewards := s.rewards.Distribute(questID, countBefore)
	if !rewards.Success {
		logger.Warning("Quest rewards incomplete", "quest_id", questID, "message", rewards.Message)
	}

	s.removeActive(questID)
	inst.Completed = true
	s.completed[questID] = inst

	repeatable := false
	if def, ok := s.catalog.Get(questID); ok {
		repeatable = def.IsRepeatable
	}
	record := s.ledger.RecordCompletion(questID, repeatable, s.now())

	logger.Info("Quest turned in", "quest_id", questID, "completion_count", record.CompletionCount, "rewards_ok", rewards.Success)

	result := &TurnInResult{
		Instance:        inst.Clone(),
		Rewards:         rewards,
		FirstCompletion: countBefore == 0,
		CompletionCount: record.CompletionCount,
	}

	s.notifier.QuestTurnedIn(TurnedInEvent{
		Instance:        inst.Clone(),
		FirstCompletion: result.FirstCompletion,
		CompletionCount: result.CompletionCount,
	})

	return result, nil
}

// CanRepeat reports whether a completed repeatable quest may be accepted again right now.
func (s *Service) CanRepeat(questID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canRepeat(questID)
}

func (s *Service) canRepeat(questID string) bool {
	def, ok := s.catalog.Get(questID)
	if !ok || !def.IsRepeatable {
		return false
	}
	if _, active := s.active[questID]; active {
		return false
	}
	return s.ledger.Count(questID) > 0
}

// Available lists the quests an NPC would offer: not active, and either never
// completed or repeatable again.
func (s *Service) Available(npcID string) []*quest.Definition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var available []*quest.Definition
	for _, def := range s.catalog.QuestsForGiver(npcID) {
		if _, active := s.active[def.ID]; active {
			continue
		}
		if s.ledger.Count(def.ID) > 0 && !s.canRepeat(def.ID) {
			continue
		}
		available = append(available, def)
	}
	return available
}

// Active returns copies of the active quests in acceptance order
func (s *Service) Active() []*quest.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*quest.Instance, 0, len(s.activeOrder))
	for _, inst := range s.activeInstances() {
		out = append(out, inst.Clone())
	}
	return out
}

// Completed returns copies of the most recent completion of each quest, sorted by ID
func (s *Service) Completed() []*quest.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*quest.Instance, 0, len(s.completed))
	for _, inst := range s.completed {
		out = append(out, inst.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Instance returns a copy of the active quest with the given ID
func (s *Service) Instance(questID string) (*quest.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.active[questID]
	if !ok {
		return nil, false
	}
	return inst.Clone(), true
}

// History returns the ledger record for a quest
func (s *Service) History(questID string) (quest.CompletionRecord, bool) {
	return s.ledger.Get(questID)
}

// activeInstances returns the live instances in acceptance order. Caller holds the lock.
func (s *Service) activeInstances() []*quest.Instance {
	instances := make([]*quest.Instance, 0, len(s.activeOrder))
	for _, id := range s.activeOrder {
		instances = append(instances, s.active[id])
	}
	return instances
}

func (s *Service) removeActive(questID string) {
	delete(s.active, questID)
	for i, id := range s.activeOrder {
		if id == questID {
			s.activeOrder = append(s.activeOrder[:i], s.activeOrder[i+1:]...)
			break
		}
	}
}

func cloneProgress(result quest.ProgressResult) quest.ProgressResult {
	out := quest.ProgressResult{Target: result.Target}
	for _, inst := range result.Touched {
		out.Touched = append(out.Touched, inst.Clone())
	}
	for _, inst := range result.NewlyReady {
		out.NewlyReady = append(out.NewlyReady, inst.Clone())
	}
	return out
}
