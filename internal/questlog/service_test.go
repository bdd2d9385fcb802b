package questlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/questkeeper/internal/quest"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
)

// recorder captures notifications as short strings in delivery order
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) QuestAccepted(inst *quest.Instance) { r.add("accepted %s", inst.ID) }
func (r *recorder) QuestProgress(ev ProgressEvent) {
	r.add("progress %s %d/%d", ev.Target, ev.Touched, ev.NewlyReady)
}
func (r *recorder) QuestReady(inst *quest.Instance) { r.add("ready %s", inst.ID) }
func (r *recorder) QuestTurnedIn(ev TurnedInEvent) {
	r.add("turnedin %s first=%t count=%d", ev.Instance.ID, ev.FirstCompletion, ev.CompletionCount)
}

// pack is a minimal in-memory collaborator set
type pack struct {
	gold, points, xp int
	items            []string
	capacity         int
}

func (p *pack) GrantCurrency(amount int) error    { p.gold += amount; return nil }
func (p *pack) GrantQuestPoints(amount int) error { p.points += amount; return nil }
func (p *pack) AwardExperience(amount int) error  { p.xp += amount; return nil }
func (p *pack) TryAddItem(itemID string) bool {
	if len(p.items) >= p.capacity {
		return false
	}
	p.items = append(p.items, itemID)
	return true
}

type ground struct{ dropped []string }

func (g *ground) PlaceItem(itemID string, _ reward.Position) bool {
	g.dropped = append(g.dropped, itemID)
	return true
}

func skeletonSlayer() *quest.Definition {
	return &quest.Definition{
		ID:           "skeleton_slayer",
		Title:        "Skeleton Slayer",
		GiverNPC:     "gravekeeper",
		IsRepeatable: true,
		ObjectiveTemplates: []quest.ObjectiveTemplate{
			{ID: "bones", Target: "decayed-skeleton", Amount: 10},
			{ID: "more_bones", Target: "decayed-skeleton", Amount: 5, IsRepeatObjective: true},
			{ID: "lord", Target: "skeleton-lord", Amount: 1, IsRepeatObjective: true},
		},
		Rewards: []quest.RewardEntry{
			{Name: quest.RewardNameGold, Kind: quest.RewardCurrency, Amount: 10},
			{Name: quest.RewardNameQuestPoints, Kind: quest.RewardQuestPoints, Amount: 2},
			{Name: "boneShield", Kind: quest.RewardItem, IsFirstTimeOnly: true},
		},
	}
}

func ratCatcher() *quest.Definition {
	return &quest.Definition{
		ID:       "rat_catcher",
		Title:    "Rat Catcher",
		GiverNPC: "gravekeeper",
		ObjectiveTemplates: []quest.ObjectiveTemplate{
			{ID: "rats", Target: "rat", Amount: 2},
			{ID: "skeleton", Target: "decayed-skeleton", Amount: 1},
		},
		Rewards: []quest.RewardEntry{
			{Name: quest.RewardNameExperience, Kind: quest.RewardExperience, Amount: 25},
		},
	}
}

type harness struct {
	svc    *Service
	events *recorder
	pack   *pack
	ground *ground
}

func newHarness(defs ...*quest.Definition) *harness {
	h := &harness{
		events: &recorder{},
		pack:   &pack{capacity: 10},
		ground: &ground{},
	}
	catalog := quest.NewCatalogFromDefinitions(defs...)
	dist := reward.NewDistributor(catalog, reward.Collaborators{
		Wallet:     h.pack,
		Experience: h.pack,
		Inventory:  h.pack,
		World:      h.ground,
	}, reward.WithDropOffset(0))
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h.svc = NewService(catalog, dist,
		WithNotifier(h.events),
		WithClock(func() time.Time { return fixed }))
	return h
}

func (h *harness) kill(target string, times int) {
	for i := 0; i < times; i++ {
		h.svc.RecordKill(target)
	}
}

func TestSkeletonSlayerScenario(t *testing.T) {
	h := newHarness(skeletonSlayer())

	inst, err := h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	require.Len(t, inst.Objectives, 1)
	assert.Equal(t, "bones", inst.Objectives[0].ID)
	assert.False(t, inst.ReadyToTurnIn)

	h.kill("decayed-skeleton", 10)

	active, ok := h.svc.Instance("skeleton_slayer")
	require.True(t, ok)
	assert.Equal(t, 10, active.Objectives[0].Current)
	assert.True(t, active.Objectives[0].Completed)
	assert.True(t, active.ReadyToTurnIn)

	result, err := h.svc.TurnIn("skeleton_slayer")
	require.NoError(t, err)
	assert.True(t, result.FirstCompletion)
	assert.Equal(t, 1, result.CompletionCount)
	assert.True(t, result.Rewards.Success)
	assert.Equal(t, 10, result.Rewards.GoldReceived)
	assert.Equal(t, 2, result.Rewards.QuestPointsReceived)
	assert.Contains(t, result.Rewards.ItemsReceived, "boneShield")
	assert.True(t, result.Instance.Completed)

	record, ok := h.svc.History("skeleton_slayer")
	require.True(t, ok)
	assert.Equal(t, 1, record.CompletionCount)
	assert.True(t, record.IsRepeatable)

	assert.True(t, h.svc.CanRepeat("skeleton_slayer"))

	again, err := h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	require.Len(t, again.Objectives, 2)
	assert.Equal(t, "more_bones", again.Objectives[0].ID)
	assert.Equal(t, "lord", again.Objectives[1].ID)
	assert.False(t, h.svc.CanRepeat("skeleton_slayer"))
}

func TestRepeatCompletionRewards(t *testing.T) {
	h := newHarness(skeletonSlayer())

	_, err := h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	h.kill("decayed-skeleton", 10)
	_, err = h.svc.TurnIn("skeleton_slayer")
	require.NoError(t, err)

	_, err = h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	h.kill("decayed-skeleton", 5)
	h.kill("skeleton-lord", 1)

	result, err := h.svc.TurnIn("skeleton_slayer")
	require.NoError(t, err)
	assert.False(t, result.FirstCompletion)
	assert.Equal(t, 2, result.CompletionCount)
	assert.Empty(t, result.Rewards.ItemsReceived)
	assert.Equal(t, 20, h.pack.gold)
	assert.Equal(t, 4, h.pack.points)
	assert.Equal(t, []string{"boneShield"}, h.pack.items)

	record, _ := h.svc.History("skeleton_slayer")
	assert.Equal(t, 2, record.CompletionCount)
	require.Len(t, h.svc.Completed(), 1)
}

func TestAcceptIdempotence(t *testing.T) {
	h := newHarness(skeletonSlayer())

	_, err := h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)

	_, err = h.svc.Accept("skeleton_slayer")
	assert.ErrorIs(t, err, quest.ErrAlreadyActive)
	assert.Len(t, h.svc.Active(), 1)
}

func TestUnknownQuestIsSafe(t *testing.T) {
	h := newHarness(skeletonSlayer())

	_, err := h.svc.Accept("ghost_quest")
	assert.ErrorIs(t, err, quest.ErrDefinitionNotFound)

	_, err = h.svc.TurnIn("ghost_quest")
	assert.ErrorIs(t, err, quest.ErrDefinitionNotFound)

	assert.Empty(t, h.svc.Active())
	assert.Empty(t, h.svc.Completed())
	assert.Empty(t, h.events.events)
}

func TestTurnInPreconditions(t *testing.T) {
	h := newHarness(skeletonSlayer())

	_, err := h.svc.TurnIn("skeleton_slayer")
	assert.ErrorIs(t, err, quest.ErrNotActive)

	_, err = h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	h.kill("decayed-skeleton", 9)

	_, err = h.svc.TurnIn("skeleton_slayer")
	assert.ErrorIs(t, err, quest.ErrNotReady)

	inst, ok := h.svc.Instance("skeleton_slayer")
	require.True(t, ok)
	assert.Equal(t, 9, inst.Objectives[0].Current)
	assert.Zero(t, h.pack.gold)
}

func TestNonRepeatableCannotBeAcceptedAgain(t *testing.T) {
	h := newHarness(ratCatcher())

	_, err := h.svc.Accept("rat_catcher")
	require.NoError(t, err)
	h.kill("rat", 2)
	h.kill("decayed-skeleton", 1)
	_, err = h.svc.TurnIn("rat_catcher")
	require.NoError(t, err)

	assert.False(t, h.svc.CanRepeat("rat_catcher"))
	_, err = h.svc.Accept("rat_catcher")
	assert.ErrorIs(t, err, quest.ErrAlreadyCompleted)
}

func TestObjectiveIsolationAcrossQuests(t *testing.T) {
	h := newHarness(skeletonSlayer(), ratCatcher())

	_, err := h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	_, err = h.svc.Accept("rat_catcher")
	require.NoError(t, err)

	progress := h.svc.RecordKill("decayed-skeleton")
	assert.Len(t, progress.Touched, 2)

	h.svc.RecordKill("rat")

	slayer, _ := h.svc.Instance("skeleton_slayer")
	assert.Equal(t, 1, slayer.Objectives[0].Current)

	rats, _ := h.svc.Instance("rat_catcher")
	assert.Equal(t, 1, rats.Objectives[0].Current)
	assert.Equal(t, 1, rats.Objectives[1].Current)
	assert.True(t, rats.Objectives[1].Completed)
	assert.False(t, rats.ReadyToTurnIn)
}

func TestReadyNotificationFiresOnce(t *testing.T) {
	h := newHarness(ratCatcher())

	_, err := h.svc.Accept("rat_catcher")
	require.NoError(t, err)
	h.kill("decayed-skeleton", 1)
	h.kill("rat", 2)
	h.kill("rat", 3)
	h.kill("wolf", 1)

	assert.Equal(t, []string{
		"accepted rat_catcher",
		"progress decayed-skeleton 1/0",
		"progress rat 1/0",
		"progress rat 1/1",
		"ready rat_catcher",
	}, h.events.events)

	_, err = h.svc.TurnIn("rat_catcher")
	require.NoError(t, err)
	assert.Equal(t, "turnedin rat_catcher first=true count=1", h.events.events[len(h.events.events)-1])
}

func TestEmptyObjectiveSetIsReadyOnAccept(t *testing.T) {
	def := &quest.Definition{
		ID:           "daily_report",
		IsRepeatable: true,
		ObjectiveTemplates: []quest.ObjectiveTemplate{
			{ID: "first_report", Target: "captain", Amount: 1},
		},
	}
	h := newHarness(def)

	_, err := h.svc.Accept("daily_report")
	require.NoError(t, err)
	h.kill("captain", 1)
	_, err = h.svc.TurnIn("daily_report")
	require.NoError(t, err)

	inst, err := h.svc.Accept("daily_report")
	require.NoError(t, err)
	assert.Empty(t, inst.Objectives)
	assert.True(t, inst.ReadyToTurnIn)
	assert.Equal(t, "ready daily_report", h.events.events[len(h.events.events)-1])
}

func TestRewardFailureDoesNotBlockTurnIn(t *testing.T) {
	def := &quest.Definition{
		ID:      "heavy_loot",
		Rewards: []quest.RewardEntry{{Name: "anvil", Kind: quest.RewardItem, Amount: 2}},
	}
	catalog := quest.NewCatalogFromDefinitions(def)
	dist := reward.NewDistributor(catalog, reward.Collaborators{Inventory: &pack{capacity: 1}})
	svc := NewService(catalog, dist)

	_, err := svc.Accept("heavy_loot")
	require.NoError(t, err)

	result, err := svc.TurnIn("heavy_loot")
	require.NoError(t, err)
	assert.False(t, result.Rewards.Success)
	require.Len(t, result.Rewards.Failures, 1)
	assert.ErrorIs(t, result.Rewards.Failures[0], quest.ErrItemPlacementFailed)
	assert.Empty(t, svc.Active())
	record, ok := svc.History("heavy_loot")
	require.True(t, ok)
	assert.Equal(t, 1, record.CompletionCount)
}

func TestInventoryOverflowDropsToWorld(t *testing.T) {
	def := &quest.Definition{
		ID:      "herbalist",
		Rewards: []quest.RewardEntry{{Name: "herb", Kind: quest.RewardItem, Amount: 3}},
	}
	h := newHarness(def)
	h.pack.capacity = 1

	_, err := h.svc.Accept("herbalist")
	require.NoError(t, err)
	result, err := h.svc.TurnIn("herbalist")
	require.NoError(t, err)

	assert.Equal(t, []string{"herb"}, result.Rewards.ItemsReceived)
	assert.Equal(t, []string{"herb", "herb"}, result.Rewards.ItemsDropped)
	assert.Equal(t, []string{"herb", "herb"}, h.ground.dropped)
}

func TestAvailable(t *testing.T) {
	h := newHarness(skeletonSlayer(), ratCatcher())

	ids := func(defs []*quest.Definition) []string {
		out := make([]string, len(defs))
		for i, d := range defs {
			out[i] = d.ID
		}
		return out
	}

	assert.Equal(t, []string{"rat_catcher", "skeleton_slayer"}, ids(h.svc.Available("gravekeeper")))

	_, err := h.svc.Accept("rat_catcher")
	require.NoError(t, err)
	assert.Equal(t, []string{"skeleton_slayer"}, ids(h.svc.Available("gravekeeper")))

	h.kill("rat", 2)
	h.kill("decayed-skeleton", 1)
	_, err = h.svc.TurnIn("rat_catcher")
	require.NoError(t, err)
	assert.Equal(t, []string{"skeleton_slayer"}, ids(h.svc.Available("gravekeeper")))

	_, err = h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	h.kill("decayed-skeleton", 10)
	_, err = h.svc.TurnIn("skeleton_slayer")
	require.NoError(t, err)
	assert.Equal(t, []string{"skeleton_slayer"}, ids(h.svc.Available("gravekeeper")))

	assert.Empty(t, h.svc.Available("blacksmith"))
}

func TestReturnedInstancesAreCopies(t *testing.T) {
	h := newHarness(skeletonSlayer())

	inst, err := h.svc.Accept("skeleton_slayer")
	require.NoError(t, err)
	inst.Objectives[0].Current = 99
	inst.ReadyToTurnIn = true

	_, err = h.svc.TurnIn("skeleton_slayer")
	assert.ErrorIs(t, err, quest.ErrNotReady)
}

func TestConcurrentKillsAreSerialized(t *testing.T) {
	def := &quest.Definition{
		ID: "wolf_cull",
		ObjectiveTemplates: []quest.ObjectiveTemplate{
			{ID: "wolves", Target: "wolf", Amount: 100},
		},
	}
	h := newHarness(def)
	_, err := h.svc.Accept("wolf_cull")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.kill("wolf", 10)
		}()
	}
	wg.Wait()

	inst, _ := h.svc.Instance("wolf_cull")
	assert.Equal(t, 100, inst.Objectives[0].Current)
	assert.True(t, inst.ReadyToTurnIn)

	ready := 0
	for _, ev := range h.events.events {
		if ev == "ready wolf_cull" {
			ready++
		}
	}
	assert.Equal(t, 1, ready)
}
