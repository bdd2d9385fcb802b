package quest

// QuestType classifies a quest for display. Behavior is driven by objectives, never by type.
type QuestType string

const (
	QuestTypeKill    QuestType = "kill"    // Defeat creatures
	QuestTypeCollect QuestType = "collect" // Gather items
	QuestTypeDeliver QuestType = "deliver" // Bring items to an NPC
)

// RewardKind identifies how a reward entry is granted.
type RewardKind int

const (
	RewardItem RewardKind = iota
	RewardCurrency
	RewardQuestPoints
	RewardExperience
)

// Reserved reward names that resolve to a non-item kind.
const (
	RewardNameGold        = "goldCoins"
	RewardNameQuestPoints = "questPoints"
	RewardNameExperience  = "experience"
)

// String returns the string representation of a RewardKind
func (k RewardKind) String() string {
	switch k {
	case RewardCurrency:
		return "currency"
	case RewardQuestPoints:
		return "quest_points"
	case RewardExperience:
		return "experience"
	default:
		return "item"
	}
}

// ObjectiveTemplate describes one objective as authored on the definition.
type ObjectiveTemplate struct {
	ID                string
	Description       string
	Target            string // creature kind, item ID, ...
	TargetName        string // Display name for the target
	Amount            int    // Quantity required
	IsRepeatObjective bool   // Only part of repeat completions
}

// RewardEntry is one reward line on a definition.
type RewardEntry struct {
	Name               string
	Kind               RewardKind // Resolved once at load time
	Amount             int
	IsFirstTimeOnly    bool
	IsRepeatableReward bool
}

// Units returns how many item units this entry grants. Items default to one.
func (r RewardEntry) Units() int {
	if r.Amount <= 0 {
		return 1
	}
	return r.Amount
}

// Definition is a static, authored quest. It is never mutated after load.
type Definition struct {
	ID                 string
	Title              string
	Description        string
	Type               QuestType
	GiverNPC           string // NPC ID who offers this quest (empty = none)
	TurnInNPC          string // NPC ID to turn in to (often same as giver)
	IsRepeatable       bool
	ObjectiveTemplates []ObjectiveTemplate
	Rewards            []RewardEntry
}

// ObjectivesFor returns the templates that apply for the given completion count:
// first-time templates when count is zero, repeat templates otherwise.
func (d *Definition) ObjectivesFor(completionCount int) []ObjectiveTemplate {
	repeat := completionCount > 0
	selected := make([]ObjectiveTemplate, 0, len(d.ObjectiveTemplates))
	for _, tmpl := range d.ObjectiveTemplates {
		if tmpl.IsRepeatObjective == repeat {
			selected = append(selected, tmpl)
		}
	}
	return selected
}

// HasRepeatObjectives returns true if any template is reserved for repeat completions
func (d *Definition) HasRepeatObjectives() bool {
	for _, tmpl := range d.ObjectiveTemplates {
		if tmpl.IsRepeatObjective {
			return true
		}
	}
	return false
}

// ItemRewardIDs returns the item template IDs referenced by the reward list.
func (d *Definition) ItemRewardIDs() []string {
	ids := make([]string, 0, len(d.Rewards))
	for _, r := range d.Rewards {
		if r.Kind == RewardItem {
			ids = append(ids, r.Name)
		}
	}
	return ids
}
