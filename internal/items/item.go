package items

import "fmt"

// Item is one unit of an item template held by a player or lying in the world
type Item struct {
	ID          string // Template identifier from the YAML key (e.g., "boneShield")
	Name        string
	Description string
	Weight      float64
	Type        ItemType
	Value       int  // Gold value
	Unique      bool // A player can only hold one of these
}

// String returns the display name with weight
func (i *Item) String() string {
	return fmt.Sprintf("%s (%.1f lbs)", i.Name, i.Weight)
}

// Placeholder builds an item for a template ID that has no definition.
// It weighs nothing so it never blocks an inventory on weight alone.
func Placeholder(id string) *Item {
	return &Item{
		ID:   id,
		Name: id,
		Type: Misc,
	}
}
