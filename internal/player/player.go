// Package player holds a session's character: wallet, inventory, experience and position.
// It implements the reward collaborator interfaces.
package player

import (
	"fmt"
	"sync"

	"github.com/lawnchairsociety/questkeeper/internal/items"
	"github.com/lawnchairsociety/questkeeper/internal/leveling"
	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
)

// ItemSource builds item units from template IDs (satisfied by *items.ItemsConfig)
type ItemSource interface {
	CreateItem(id string) *items.Item
}

// Limits bounds what a player can carry
type Limits struct {
	MaxCarryWeight    float64
	MaxInventorySlots int // 0 means unlimited
}

type Player struct {
	mu sync.Mutex

	Name        string
	Inventory   []*items.Item
	Gold        int
	QuestPoints int
	Level       int
	Experience  int
	X, Y        float64

	limits     Limits
	itemSource ItemSource
	stats      *PlayerStatistics
	onLevelUp  func(leveling.LevelUpInfo)
}

// NewPlayer creates a level 1 player with the given limits and starting gold
func NewPlayer(name string, limits Limits, startingGold int, source ItemSource) *Player {
	return &Player{
		Name:       name,
		Inventory:  make([]*items.Item, 0),
		Gold:       startingGold,
		Level:      1,
		limits:     limits,
		itemSource: source,
		stats:      NewPlayerStatistics(),
	}
}

// OnLevelUp registers a callback invoked for every level gained
func (p *Player) OnLevelUp(fn func(leveling.LevelUpInfo)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLevelUp = fn
}

// GrantCurrency adds gold to the player's wallet
func (p *Player) GrantCurrency(amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative gold amount %d", amount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.Gold += amount
	p.stats.RecordGoldEarned(amount)
	return nil
}

// GrantQuestPoints adds quest points
func (p *Player) GrantQuestPoints(amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative quest point amount %d", amount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.QuestPoints += amount
	return nil
}

// AwardExperience adds experience and levels up as many times as the total allows
func (p *Player) AwardExperience(amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative experience amount %d", amount)
	}

	p.mu.Lock()
	levelUps := p.gainExperience(amount)
	handler := p.onLevelUp
	p.mu.Unlock()

	for _, info := range levelUps {
		logger.Info("Player leveled up", "player", p.Name, "level", info.NewLevel)
		if handler != nil {
			handler(info)
		}
	}
	return nil
}

// gainExperience must be called with the lock held
func (p *Player) gainExperience(xp int) []leveling.LevelUpInfo {
	p.Experience += xp

	var levelUps []leveling.LevelUpInfo

	// Can level multiple times from one XP gain
	for p.Level < leveling.MaxPlayerLevel && p.Experience >= leveling.XPForLevel(p.Level+1) {
		p.Level++
		levelUps = append(levelUps, leveling.LevelUpInfo{
			NewLevel:   p.Level,
			Experience: p.Experience,
		})
	}

	return levelUps
}

// TryAddItem adds one unit of the template to the inventory.
// It refuses when the pack is out of slots, too heavy, or already holds a unique item.
func (p *Player) TryAddItem(itemID string) bool {
	item := p.createItem(itemID)

	p.mu.Lock()
	defer p.mu.Unlock()

	if reason := p.refusal(item); reason != "" {
		logger.Debug("Inventory refused item", "player", p.Name, "item", itemID, "reason", reason)
		return false
	}

	items.AddItem(&p.Inventory, item)
	return true
}

// refusal returns why the item cannot be carried, or "" if it can. Caller holds the lock.
func (p *Player) refusal(item *items.Item) string {
	if p.limits.MaxInventorySlots > 0 && len(p.Inventory) >= p.limits.MaxInventorySlots {
		return "no free slots"
	}
	if items.GetTotalWeight(p.Inventory)+item.Weight > p.limits.MaxCarryWeight {
		return "too heavy"
	}
	if item.Unique && items.CountByID(p.Inventory, item.ID) > 0 {
		return "unique item already held"
	}
	return ""
}

func (p *Player) createItem(itemID string) *items.Item {
	if p.itemSource == nil {
		return items.Placeholder(itemID)
	}
	return p.itemSource.CreateItem(itemID)
}

// CanCarry checks if the player can carry one more unit of the template
func (p *Player) CanCarry(itemID string) bool {
	item := p.createItem(itemID)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refusal(item) == ""
}

// RemoveItem removes one unit by template ID
func (p *Player) RemoveItem(itemID string) (*items.Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return items.RemoveItemByID(&p.Inventory, itemID)
}

// Position returns where the player stands
func (p *Player) Position() reward.Position {
	p.mu.Lock()
	defer p.mu.Unlock()
	return reward.Position{X: p.X, Y: p.Y}
}

// MoveTo sets the player's position
func (p *Player) MoveTo(pos reward.Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.X, p.Y = pos.X, pos.Y
}

// GetInventory returns a copy of the inventory slice
func (p *Player) GetInventory() []*items.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*items.Item, len(p.Inventory))
	copy(out, p.Inventory)
	return out
}

// GetCurrentWeight returns the total weight of items in inventory
func (p *Player) GetCurrentWeight() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return items.GetTotalWeight(p.Inventory)
}

// GetGold returns the player's gold amount
func (p *Player) GetGold() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Gold
}

// GetQuestPoints returns the player's quest points
func (p *Player) GetQuestPoints() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.QuestPoints
}

// GetLevel returns the player's level
func (p *Player) GetLevel() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Level
}

// GetExperience returns the player's total experience
func (p *Player) GetExperience() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Experience
}

// GetStatusPrompt returns a one-line status summary
func (p *Player) GetStatusPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("[Lvl %d | XP %d/%d | %d gold | %d QP | %.1f/%.1f lbs]",
		p.Level, p.Experience, leveling.XPForLevel(p.Level+1),
		p.Gold, p.QuestPoints,
		items.GetTotalWeight(p.Inventory), p.limits.MaxCarryWeight)
}

// Statistics returns the player's activity counters
func (p *Player) Statistics() *PlayerStatistics {
	return p.stats
}
