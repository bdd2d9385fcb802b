package items

// ItemType represents the category of an item
type ItemType int

const (
	Misc ItemType = iota
	Weapon
	Armor
	Consumable
	Trophy
)

// String returns the string representation of an ItemType
func (t ItemType) String() string {
	switch t {
	case Weapon:
		return "weapon"
	case Armor:
		return "armor"
	case Consumable:
		return "consumable"
	case Trophy:
		return "trophy"
	case Misc:
		return "misc"
	default:
		return "unknown"
	}
}

// StringToItemType converts a string to an ItemType
func StringToItemType(typeStr string) ItemType {
	switch typeStr {
	case "weapon":
		return Weapon
	case "armor", "shield":
		return Armor
	case "consumable", "food", "drink", "potion":
		return Consumable
	case "trophy":
		return Trophy
	default:
		return Misc
	}
}
