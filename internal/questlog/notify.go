package questlog

import "github.com/lawnchairsociety/questkeeper/internal/quest"

// ProgressEvent is emitted after a kill has been applied to the active quests.
type ProgressEvent struct {
	Target     string
	Touched    int // Active quests with at least one objective advanced
	NewlyReady int // Quests that became ready to turn in
}

// TurnedInEvent is emitted after a quest has been moved to the completed set.
type TurnedInEvent struct {
	Instance        *quest.Instance
	FirstCompletion bool
	CompletionCount int
}

// Notifier receives lifecycle events. Events are delivered synchronously, in order,
// while the service holds the player's lock; implementations must not call back into the Service.
type Notifier interface {
	QuestAccepted(inst *quest.Instance)
	QuestProgress(ev ProgressEvent)
	QuestReady(inst *quest.Instance)
	QuestTurnedIn(ev TurnedInEvent)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) QuestAccepted(*quest.Instance) {}
func (NopNotifier) QuestProgress(ProgressEvent)   {}
func (NopNotifier) QuestReady(*quest.Instance)    {}
func (NopNotifier) QuestTurnedIn(TurnedInEvent)   {}
