// Package command parses player input and renders quest journal output as text.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/questkeeper/internal/help"
	"github.com/lawnchairsociety/questkeeper/internal/items"
	"github.com/lawnchairsociety/questkeeper/internal/player"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
	"github.com/lawnchairsociety/questkeeper/internal/questlog"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
	"github.com/lawnchairsociety/questkeeper/internal/world"
)

// QuestLogInterface defines the journal operations commands need
// These are satisfied by *questlog.Service
type QuestLogInterface interface {
	Accept(questID string) (*quest.Instance, error)
	RecordKill(target string) quest.ProgressResult
	TurnIn(questID string) (*questlog.TurnInResult, error)
	CanRepeat(questID string) bool
	Active() []*quest.Instance
	Completed() []*quest.Instance
	Instance(questID string) (*quest.Instance, bool)
	History(questID string) (quest.CompletionRecord, bool)
	Available(npcID string) []*quest.Definition
}

// PlayerInterface defines the methods we need from a player object
// These are satisfied by *player.Player
type PlayerInterface interface {
	GetInventory() []*items.Item
	GetStatusPrompt() string
	Position() reward.Position
	MoveTo(pos reward.Position)
	Statistics() *player.PlayerStatistics
}

// WorldInterface defines the methods we need from the world
// These are satisfied by *world.World
type WorldInterface interface {
	Size() (int, int)
	TileType(t world.Tile) world.TileType
	GroundNear(center world.Tile, radius int) []world.GroundStack
}

// CatalogInterface looks up definitions for display
// These are satisfied by *quest.Catalog
type CatalogInterface interface {
	Get(id string) (*quest.Definition, bool)
}

// Context is everything a command can act on for one session
type Context struct {
	Quests  QuestLogInterface
	Player  PlayerInterface
	World   WorldInterface
	Catalog CatalogInterface

	// Help overrides the built-in help text when set
	Help *help.Help
}

func (ctx *Context) helpText(topic string) string {
	h := ctx.Help
	if h == nil {
		h = help.Default()
	}
	return h.GetHelpText(topic)
}

type Command struct {
	Name string
	Args []string
}

// RequireArgs checks if the command has at least the minimum number of arguments
// Returns an error with the usage message if not enough arguments are provided
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// ParseCommand splits input into a lowercase name and its arguments
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}}
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// Execute runs the command and returns the text to show the player
func (c *Command) Execute(ctx *Context) string {
	if ctx == nil || ctx.Quests == nil || ctx.Player == nil {
		return "Internal error: no session"
	}

	switch c.Name {
	case "":
		return ""
	case "help", "?":
		return ctx.helpText(strings.Join(c.Args, " "))
	case "quests", "quest", "journal", "j":
		return executeJournal(c, ctx)
	case "available", "offers":
		return executeAvailable(c, ctx)
	case "accept":
		return executeAccept(c, ctx)
	case "kill", "slay":
		return executeKill(c, ctx)
	case "turnin", "complete":
		return executeTurnIn(c, ctx)
	case "history":
		return executeHistory(c, ctx)
	case "completed":
		return executeCompleted(ctx)
	case "inventory", "inv", "i":
		return executeInventory(ctx)
	case "ground":
		return executeGround(ctx)
	case "move", "goto":
		return executeMove(c, ctx)
	case "status", "score":
		return ctx.Player.GetStatusPrompt()
	default:
		return fmt.Sprintf("Unknown command '%s'. Type 'help' for a list of commands.", c.Name)
	}
}

// errorText renders an engine error for the player
func errorText(err error) string {
	var qerr *quest.Error
	if errors.As(err, &qerr) {
		return capitalize(qerr.Message) + "."
	}
	return "Something went wrong: " + err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
