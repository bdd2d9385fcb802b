package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/questkeeper/internal/command"
	"github.com/lawnchairsociety/questkeeper/internal/help"
	"github.com/lawnchairsociety/questkeeper/internal/leveling"
	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/player"
	"github.com/lawnchairsociety/questkeeper/internal/questlog"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
	"github.com/lawnchairsociety/questkeeper/internal/world"
)

// Session is one connected client with its own player, world, and quest journal.
// Nothing is shared between sessions except the read-only catalog and item templates.
type Session struct {
	ID        string
	client    Client
	ip        string
	player    *player.Player
	world     *world.World
	quests    *questlog.Service
	ctx       *command.Context
	createdAt time.Time
}

// newSession wires the reward collaborators and notifier for a fresh player
func (s *Server) newSession(client Client, ip string) *Session {
	cfg := s.config
	id := uuid.NewString()

	p := player.NewPlayer("adventurer-"+id[:8], player.Limits{
		MaxCarryWeight:    cfg.Player.MaxCarryWeight,
		MaxInventorySlots: cfg.Player.MaxInventorySlots,
	}, cfg.Player.StartingGold, s.items)
	p.MoveTo(reward.Position{
		X: float64(cfg.Player.WorldWidth) / 2,
		Y: float64(cfg.Player.WorldHeight) / 2,
	})

	w := world.NewWorld(cfg.Player.WorldWidth, cfg.Player.WorldHeight, cfg.Player.TileStack, s.items)

	distributor := reward.NewDistributor(s.catalog, reward.Collaborators{
		Wallet:     p,
		Experience: p,
		Inventory:  p,
		World:      w,
		Player:     p,
	}, reward.WithDropOffset(cfg.Rewards.DropOffset))

	notifier := &command.LineNotifier{
		Catalog: s.catalog,
		Send: func(line string) {
			if err := client.WriteLine(line); err != nil {
				logger.Debug("Notification dropped", "session", id, "error", err)
			}
		},
	}

	p.OnLevelUp(func(info leveling.LevelUpInfo) {
		notifier.Send(fmt.Sprintf("You have reached level %d!", info.NewLevel))
	})

	quests := questlog.NewService(s.catalog, distributor, questlog.WithNotifier(notifier))

	return &Session{
		ID:     id,
		client: client,
		ip:     ip,
		player: p,
		world:  w,
		quests: quests,
		ctx: &command.Context{
			Quests:  quests,
			Player:  p,
			World:   w,
			Catalog: s.catalog,
			Help:    s.currentHelp(),
		},
		createdAt: time.Now(),
	}
}

// run reads commands until the client disconnects or quits
func (sess *Session) run(throttle *CommandThrottle) {
	sess.client.WriteLine(fmt.Sprintf("Welcome, %s. Session %s. Type 'help' for commands.", sess.player.Name, sess.ID))

	for {
		line, err := sess.client.ReadLine()
		if err != nil {
			logger.Debug("Session read ended", "session", sess.ID, "error", err)
			return
		}

		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			sess.client.WriteLine("Farewell.")
			return
		}

		if throttle != nil {
			if ok, wait := throttle.Allow(sess.ID); !ok {
				logger.Warning("Session throttled", "session", sess.ID, "ip", sess.ip)
				sess.client.WriteLine(fmt.Sprintf("Slow down! Try again in %d seconds.", int(wait.Seconds())+1))
				continue
			}
		}

		cmd := command.ParseCommand(line)
		logger.Debug("Command", "session", sess.ID, "name", cmd.Name, "args", cmd.Args)

		if response := cmd.Execute(sess.ctx); response != "" {
			if err := sess.client.WriteLine(response); err != nil {
				return
			}
		}
	}
}

func (s *Server) currentHelp() *help.Help {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.help
}
