// Package reward selects and grants quest rewards through the game's collaborators.
package reward

// Position is a point in world space.
type Position struct {
	X float64
	Y float64
}

// Add returns p offset by dx, dy
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Wallet receives currency and quest points.
type Wallet interface {
	GrantCurrency(amount int) error
	GrantQuestPoints(amount int) error
}

// ExperienceSink receives experience awards.
type ExperienceSink interface {
	AwardExperience(amount int) error
}

// Inventory accepts single item units. TryAddItem reports false when the pack is full
// or the item cannot be held.
type Inventory interface {
	TryAddItem(itemID string) bool
}

// WorldPlacer drops item units into the world.
type WorldPlacer interface {
	PlaceItem(itemID string, near Position) bool
}

// PositionSource reports where the player currently stands.
type PositionSource interface {
	Position() Position
}

// Collaborators bundles everything the distributor calls out to.
// A nil collaborator makes every grant that needs it fail with GrantFailed.
type Collaborators struct {
	Wallet     Wallet
	Experience ExperienceSink
	Inventory  Inventory
	World      WorldPlacer
	Player     PositionSource
}
