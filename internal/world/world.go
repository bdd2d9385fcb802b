// Package world is a bounded tile grid that holds items dropped on the ground.
package world

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lawnchairsociety/questkeeper/internal/items"
	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
)

// ItemSource builds item units from template IDs (satisfied by *items.ItemsConfig)
type ItemSource interface {
	CreateItem(id string) *items.Item
}

// Tile is a grid coordinate
type Tile struct {
	X, Y int
}

// TileAt returns the tile containing a world position
func TileAt(pos reward.Position) Tile {
	return Tile{X: int(math.Floor(pos.X)), Y: int(math.Floor(pos.Y))}
}

// GroundStack is the set of items lying on one tile
type GroundStack struct {
	Tile  Tile
	Items []*items.Item
}

type World struct {
	mu         sync.RWMutex
	width      int
	height     int
	tiles      [][]TileType // [y][x]
	ground     map[Tile][]*items.Item
	stackLimit int // 0 means unlimited
	itemSource ItemSource
}

// NewWorld creates an all-floor grid
func NewWorld(width, height, stackLimit int, source ItemSource) *World {
	tiles := make([][]TileType, height)
	for y := range tiles {
		tiles[y] = make([]TileType, width)
	}
	return &World{
		width:      width,
		height:     height,
		tiles:      tiles,
		ground:     make(map[Tile][]*items.Item),
		stackLimit: stackLimit,
		itemSource: source,
	}
}

// NewWorldFromLayout builds a grid from rows of '.', '#' and '~'. All rows must have equal length.
func NewWorldFromLayout(rows []string, stackLimit int, source ItemSource) (*World, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout has no rows")
	}

	width := len([]rune(rows[0]))
	w := NewWorld(width, len(rows), stackLimit, source)
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("layout row %d has width %d, expected %d", y, len(runes), width)
		}
		for x, r := range runes {
			t, ok := ParseTileRune(r)
			if !ok {
				return nil, fmt.Errorf("layout row %d column %d: unknown tile %q", y, x, r)
			}
			w.tiles[y][x] = t
		}
	}
	return w, nil
}

// Size returns the grid dimensions
func (w *World) Size() (int, int) {
	return w.width, w.height
}

// InBounds reports whether a tile lies on the grid
func (w *World) InBounds(t Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < w.width && t.Y < w.height
}

// SetTile changes the terrain of a tile
func (w *World) SetTile(t Tile, tt TileType) {
	if !w.InBounds(t) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tiles[t.Y][t.X] = tt
}

// TileType returns the terrain at t. Out-of-bounds tiles read as walls.
func (w *World) TileType(t Tile) TileType {
	if !w.InBounds(t) {
		return TileWall
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tiles[t.Y][t.X]
}

// PlaceItem drops one unit of the template on the tile containing near.
// It fails outside the grid, on blocked terrain, or on a full tile.
func (w *World) PlaceItem(itemID string, near reward.Position) bool {
	tile := TileAt(near)
	if !w.InBounds(tile) {
		logger.Debug("Item drop out of bounds", "item", itemID, "x", tile.X, "y", tile.Y)
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tiles[tile.Y][tile.X].IsBlocked() {
		logger.Debug("Item drop on blocked tile", "item", itemID, "x", tile.X, "y", tile.Y)
		return false
	}
	if w.stackLimit > 0 && len(w.ground[tile]) >= w.stackLimit {
		logger.Debug("Item drop on full tile", "item", itemID, "x", tile.X, "y", tile.Y)
		return false
	}

	w.ground[tile] = append(w.ground[tile], w.createItem(itemID))
	return true
}

func (w *World) createItem(itemID string) *items.Item {
	if w.itemSource == nil {
		return items.Placeholder(itemID)
	}
	return w.itemSource.CreateItem(itemID)
}

// ItemsAt returns a copy of the items on a tile
func (w *World) ItemsAt(t Tile) []*items.Item {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*items.Item, len(w.ground[t]))
	copy(out, w.ground[t])
	return out
}

// PickUp removes one unit by template ID from a tile
func (w *World) PickUp(t Tile, itemID string) (*items.Item, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stack := w.ground[t]
	item, ok := items.RemoveItemByID(&stack, itemID)
	if !ok {
		return nil, false
	}
	if len(stack) == 0 {
		delete(w.ground, t)
	} else {
		w.ground[t] = stack
	}
	return item, true
}

// GroundNear returns non-empty stacks within radius tiles of center, nearest first
func (w *World) GroundNear(center Tile, radius int) []GroundStack {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var stacks []GroundStack
	for tile, stack := range w.ground {
		if abs(tile.X-center.X) > radius || abs(tile.Y-center.Y) > radius {
			continue
		}
		out := make([]*items.Item, len(stack))
		copy(out, stack)
		stacks = append(stacks, GroundStack{Tile: tile, Items: out})
	}

	sort.Slice(stacks, func(i, j int) bool {
		di := distance(stacks[i].Tile, center)
		dj := distance(stacks[j].Tile, center)
		if di != dj {
			return di < dj
		}
		if stacks[i].Tile.Y != stacks[j].Tile.Y {
			return stacks[i].Tile.Y < stacks[j].Tile.Y
		}
		return stacks[i].Tile.X < stacks[j].Tile.X
	})
	return stacks
}

// GroundItemCount returns the number of units lying anywhere in the world
func (w *World) GroundItemCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	total := 0
	for _, stack := range w.ground {
		total += len(stack)
	}
	return total
}

func distance(a, b Tile) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
