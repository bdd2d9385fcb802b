package reward

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
)

// DefaultDropOffset is the default maximum per-axis distance of a world drop from the player.
const DefaultDropOffset = 1.0

var errNoCollaborator = errors.New("collaborator not configured")

// DefinitionSource looks up quest definitions (satisfied by *quest.Catalog).
type DefinitionSource interface {
	Get(id string) (*quest.Definition, bool)
}

// Result is the outcome of one distribution. It is returned even when grants fail.
type Result struct {
	QuestID             string
	Success             bool
	FirstCompletion     bool
	GoldReceived        int
	QuestPointsReceived int
	ExperienceReceived  int
	ItemsReceived       []string // One entry per unit that went into the inventory
	ItemsDropped        []string // One entry per unit placed in the world
	Failures            []error  // *quest.Error with GrantFailed or ItemPlacementFailed
	Message             string
}

// Distributor grants quest rewards. It is not safe for concurrent use; each player owns one.
type Distributor struct {
	catalog    DefinitionSource
	collab     Collaborators
	rng        *rand.Rand
	dropOffset float64
}

// Option configures a Distributor
type Option func(*Distributor)

// WithRand sets the random source used for world-drop offsets
func WithRand(rng *rand.Rand) Option {
	return func(d *Distributor) {
		d.rng = rng
	}
}

// WithDropOffset sets the maximum absolute per-axis offset for world drops
func WithDropOffset(offset float64) Option {
	return func(d *Distributor) {
		if offset >= 0 {
			d.dropOffset = offset
		}
	}
}

// NewDistributor creates a distributor over the catalog and collaborators
func NewDistributor(catalog DefinitionSource, collab Collaborators, opts ...Option) *Distributor {
	d := &Distributor{
		catalog:    catalog,
		collab:     collab,
		dropOffset: DefaultDropOffset,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

// Select applies the first-time/repeat policy to a definition's rewards.
// First completion: everything except repeatable-only entries.
// Repeat completion: everything except first-time-only entries.
func Select(def *quest.Definition, completionCountBefore int) []quest.RewardEntry {
	first := completionCountBefore == 0
	selected := make([]quest.RewardEntry, 0, len(def.Rewards))
	for _, entry := range def.Rewards {
		if first && entry.IsRepeatableReward {
			continue
		}
		if !first && entry.IsFirstTimeOnly {
			continue
		}
		selected = append(selected, entry)
	}
	return selected
}

// Distribute grants the rewards of questID given how many times it was completed before
// this turn-in. Failures are collected into the result and never abort the remaining grants.
func (d *Distributor) Distribute(questID string, completionCountBefore int) Result {
	result := Result{
		QuestID:         questID,
		FirstCompletion: completionCountBefore == 0,
	}

	def, ok := d.catalog.Get(questID)
	if !ok {
		err := quest.NewDefinitionNotFound(questID)
		logger.Warning("Reward distribution skipped", "quest_id", questID, "error", err)
		result.Message = fmt.Sprintf("No rewards could be given: %s.", err.Message)
		return result
	}

	for _, entry := range Select(def, completionCountBefore) {
		d.grant(questID, entry, &result)
	}

	result.Success = len(result.Failures) == 0
	result.Message = result.Summary()
	return result
}

// grant dispatches one selected entry by its resolved kind
func (d *Distributor) grant(questID string, entry quest.RewardEntry, result *Result) {
	switch entry.Kind {
	case quest.RewardCurrency:
		if entry.Amount <= 0 {
			return
		}
		if err := d.grantCurrency(entry.Amount); err != nil {
			d.fail(result, quest.NewGrantFailed(questID, fmt.Sprintf("%d gold", entry.Amount), err))
			return
		}
		result.GoldReceived += entry.Amount
		logger.Always("Quest reward granted", "quest_id", questID, "kind", entry.Kind.String(), "amount", entry.Amount)

	case quest.RewardQuestPoints:
		if entry.Amount <= 0 {
			return
		}
		if err := d.grantQuestPoints(entry.Amount); err != nil {
			d.fail(result, quest.NewGrantFailed(questID, fmt.Sprintf("%d quest points", entry.Amount), err))
			return
		}
		result.QuestPointsReceived += entry.Amount
		logger.Always("Quest reward granted", "quest_id", questID, "kind", entry.Kind.String(), "amount", entry.Amount)

	case quest.RewardExperience:
		if entry.Amount <= 0 {
			return
		}
		if err := d.awardExperience(entry.Amount); err != nil {
			d.fail(result, quest.NewGrantFailed(questID, fmt.Sprintf("%d experience", entry.Amount), err))
			return
		}
		result.ExperienceReceived += entry.Amount
		logger.Always("Quest reward granted", "quest_id", questID, "kind", entry.Kind.String(), "amount", entry.Amount)

	default:
		for i := 0; i < entry.Units(); i++ {
			d.grantItemUnit(questID, entry.Name, result)
		}
	}
}

// grantItemUnit tries the inventory first and falls back to dropping the unit near the player
func (d *Distributor) grantItemUnit(questID, itemID string, result *Result) {
	if d.collab.Inventory != nil && d.collab.Inventory.TryAddItem(itemID) {
		logger.Always("Quest reward granted", "quest_id", questID, "kind", "item", "item", itemID)
		result.ItemsReceived = append(result.ItemsReceived, itemID)
		return
	}

	if d.collab.World != nil {
		var origin Position
		if d.collab.Player != nil {
			origin = d.collab.Player.Position()
		}
		spots := []Position{origin.Add(d.offset(), d.offset())}
		if spots[0] != origin {
			// fall back to the player's own tile
			spots = append(spots, origin)
		}
		for _, spot := range spots {
			if d.collab.World.PlaceItem(itemID, spot) {
				logger.Info("Quest reward dropped in world", "quest_id", questID, "item", itemID, "x", spot.X, "y", spot.Y)
				result.ItemsDropped = append(result.ItemsDropped, itemID)
				return
			}
		}
	}

	err := quest.NewItemPlacementFailed(questID, itemID)
	logger.Error("Quest reward item lost", "quest_id", questID, "item", itemID)
	result.Failures = append(result.Failures, err)
}

// offset returns a value in [-dropOffset, dropOffset]
func (d *Distributor) offset() float64 {
	if d.dropOffset == 0 {
		return 0
	}
	return (d.rng.Float64()*2 - 1) * d.dropOffset
}

func (d *Distributor) grantCurrency(amount int) error {
	if d.collab.Wallet == nil {
		return errNoCollaborator
	}
	return d.collab.Wallet.GrantCurrency(amount)
}

func (d *Distributor) grantQuestPoints(amount int) error {
	if d.collab.Wallet == nil {
		return errNoCollaborator
	}
	return d.collab.Wallet.GrantQuestPoints(amount)
}

func (d *Distributor) awardExperience(amount int) error {
	if d.collab.Experience == nil {
		return errNoCollaborator
	}
	return d.collab.Experience.AwardExperience(amount)
}

func (d *Distributor) fail(result *Result, err *quest.Error) {
	logger.Warning("Quest reward grant failed", "quest_id", err.QuestID, "error", err)
	result.Failures = append(result.Failures, err)
}

// Summary renders the non-empty categories in a fixed order:
// gold, quest points, experience, items received, items dropped, then failures.
func (r Result) Summary() string {
	var parts []string
	if r.GoldReceived > 0 {
		parts = append(parts, fmt.Sprintf("%d gold", r.GoldReceived))
	}
	if r.QuestPointsReceived > 0 {
		parts = append(parts, fmt.Sprintf("%d quest points", r.QuestPointsReceived))
	}
	if r.ExperienceReceived > 0 {
		parts = append(parts, fmt.Sprintf("%d experience", r.ExperienceReceived))
	}
	if len(r.ItemsReceived) > 0 {
		parts = append(parts, "received "+groupItems(r.ItemsReceived))
	}
	if len(r.ItemsDropped) > 0 {
		parts = append(parts, "dropped nearby "+groupItems(r.ItemsDropped))
	}

	var sb strings.Builder
	if len(parts) == 0 {
		sb.WriteString("No rewards.")
	} else {
		sb.WriteString("Rewards: ")
		sb.WriteString(strings.Join(parts, "; "))
		sb.WriteString(".")
	}

	messages := make([]string, len(r.Failures))
	for i, err := range r.Failures {
		var qerr *quest.Error
		if errors.As(err, &qerr) {
			messages[i] = qerr.Message
		} else {
			messages[i] = err.Error()
		}
	}
	order, counts := tally(messages)
	for _, msg := range order {
		if counts[msg] > 1 {
			sb.WriteString(fmt.Sprintf(" Failed: %s (x%d).", msg, counts[msg]))
		} else {
			sb.WriteString(fmt.Sprintf(" Failed: %s.", msg))
		}
	}

	return sb.String()
}

// groupItems renders ["a", "b", "a"] as "a x2, b" keeping first-seen order
func groupItems(ids []string) string {
	order, counts := tally(ids)
	parts := make([]string, len(order))
	for i, id := range order {
		if counts[id] > 1 {
			parts[i] = fmt.Sprintf("%s x%d", id, counts[id])
		} else {
			parts[i] = id
		}
	}
	return strings.Join(parts, ", ")
}

// tally counts repeated strings, returning the distinct values in first-seen order
func tally(values []string) ([]string, map[string]int) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	return order, counts
}
