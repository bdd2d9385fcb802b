package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/questkeeper/internal/items"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
	"github.com/lawnchairsociety/questkeeper/internal/world"
)

// groundRadius is how far 'ground' looks around the player, in tiles
const groundRadius = 2

// executeInventory lists carried items grouped by template
func executeInventory(ctx *Context) string {
	inventory := ctx.Player.GetInventory()
	if len(inventory) == 0 {
		return "You are not carrying anything.\n" + ctx.Player.GetStatusPrompt()
	}

	var sb strings.Builder
	sb.WriteString("You are carrying:\n")
	for _, line := range groupItems(inventory) {
		sb.WriteString(fmt.Sprintf("  %s\n", line))
	}
	sb.WriteString(ctx.Player.GetStatusPrompt())
	return sb.String()
}

// executeGround lists items lying within a couple of tiles of the player
func executeGround(ctx *Context) string {
	if ctx.World == nil {
		return "There is no ground here."
	}

	here := world.TileAt(ctx.Player.Position())
	stacks := ctx.World.GroundNear(here, groundRadius)
	if len(stacks) == 0 {
		return "Nothing lies on the ground nearby."
	}

	var sb strings.Builder
	sb.WriteString("On the ground nearby:")
	for _, stack := range stacks {
		sb.WriteString(fmt.Sprintf("\n  (%d,%d): %s", stack.Tile.X, stack.Tile.Y, strings.Join(groupItems(stack.Items), ", ")))
	}
	return sb.String()
}

// executeMove walks the player to an open tile
func executeMove(c *Command, ctx *Context) string {
	if err := c.RequireArgs(2, "Usage: move <x> <y>"); err != nil {
		return err.Error()
	}

	x, errX := strconv.ParseFloat(c.Args[0], 64)
	y, errY := strconv.ParseFloat(c.Args[1], 64)
	if errX != nil || errY != nil {
		return "Usage: move <x> <y>"
	}

	pos := reward.Position{X: x, Y: y}
	if ctx.World != nil {
		tile := world.TileAt(pos)
		width, height := ctx.World.Size()
		if tile.X < 0 || tile.Y < 0 || tile.X >= width || tile.Y >= height {
			return "You can't go there."
		}
		if tt := ctx.World.TileType(tile); tt.IsBlocked() {
			return fmt.Sprintf("You can't stand on %s.", tt)
		}
	}

	ctx.Player.MoveTo(pos)
	return fmt.Sprintf("You walk to (%.1f, %.1f).", x, y)
}

// groupItems renders "Name xN" lines sorted by name
func groupItems(list []*items.Item) []string {
	counts := make(map[string]int)
	names := make(map[string]string)
	for _, item := range list {
		counts[item.ID]++
		names[item.ID] = item.Name
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return names[ids[i]] < names[ids[j]]
	})

	lines := make([]string, len(ids))
	for i, id := range ids {
		if counts[id] > 1 {
			lines[i] = fmt.Sprintf("%s x%d", names[id], counts[id])
		} else {
			lines[i] = names[id]
		}
	}
	return lines
}

// questType returns the definition's type, defaulting to kill for unknown IDs
func (ctx *Context) questType(questID string) quest.QuestType {
	if ctx.Catalog != nil {
		if def, ok := ctx.Catalog.Get(questID); ok {
			return def.Type
		}
	}
	return quest.QuestTypeKill
}
