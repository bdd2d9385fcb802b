package world

// TileType represents the terrain of a tile
type TileType int

const (
	TileFloor TileType = iota // Open ground, items can be dropped here
	TileWall                  // Solid, blocks drops
	TileWater                 // Items would sink, blocks drops
)

// String returns the string representation of a TileType
func (t TileType) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileWater:
		return "water"
	default:
		return "unknown"
	}
}

// IsBlocked returns true if items cannot rest on this tile
func (t TileType) IsBlocked() bool {
	return t != TileFloor
}

// ParseTileRune converts a layout character to a TileType
func ParseTileRune(r rune) (TileType, bool) {
	switch r {
	case '.':
		return TileFloor, true
	case '#':
		return TileWall, true
	case '~':
		return TileWater, true
	default:
		return TileFloor, false
	}
}
