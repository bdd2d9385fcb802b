package reward

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/questkeeper/internal/quest"
)

type mockWallet struct{ mock.Mock }

func (m *mockWallet) GrantCurrency(amount int) error {
	return m.Called(amount).Error(0)
}

func (m *mockWallet) GrantQuestPoints(amount int) error {
	return m.Called(amount).Error(0)
}

type mockExperience struct{ mock.Mock }

func (m *mockExperience) AwardExperience(amount int) error {
	return m.Called(amount).Error(0)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) TryAddItem(itemID string) bool {
	return m.Called(itemID).Bool(0)
}

type mockWorld struct{ mock.Mock }

func (m *mockWorld) PlaceItem(itemID string, near Position) bool {
	return m.Called(itemID, near).Bool(0)
}

type fixedPosition Position

func (p fixedPosition) Position() Position { return Position(p) }

func skeletonSlayer() *quest.Definition {
	return &quest.Definition{
		ID:           "skeleton_slayer",
		Title:        "Skeleton Slayer",
		IsRepeatable: true,
		Rewards: []quest.RewardEntry{
			{Name: quest.RewardNameGold, Kind: quest.RewardCurrency, Amount: 10},
			{Name: quest.RewardNameQuestPoints, Kind: quest.RewardQuestPoints, Amount: 2},
			{Name: "boneShield", Kind: quest.RewardItem, IsFirstTimeOnly: true},
			{Name: "boneDust", Kind: quest.RewardItem, Amount: 2, IsRepeatableReward: true},
		},
	}
}

type fixture struct {
	wallet    *mockWallet
	xp        *mockExperience
	inventory *mockInventory
	world     *mockWorld
	dist      *Distributor
}

func newFixture(defs ...*quest.Definition) *fixture {
	f := &fixture{
		wallet:    &mockWallet{},
		xp:        &mockExperience{},
		inventory: &mockInventory{},
		world:     &mockWorld{},
	}
	f.dist = NewDistributor(quest.NewCatalogFromDefinitions(defs...), Collaborators{
		Wallet:     f.wallet,
		Experience: f.xp,
		Inventory:  f.inventory,
		World:      f.world,
		Player:     fixedPosition{X: 5, Y: 5},
	}, WithRand(rand.New(rand.NewSource(1))))
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.wallet.AssertExpectations(t)
	f.xp.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
	f.world.AssertExpectations(t)
}

func names(entries []quest.RewardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestSelect_FirstCompletion(t *testing.T) {
	selected := Select(skeletonSlayer(), 0)
	assert.Equal(t, []string{"goldCoins", "questPoints", "boneShield"}, names(selected))
}

func TestSelect_RepeatCompletion(t *testing.T) {
	selected := Select(skeletonSlayer(), 1)
	assert.Equal(t, []string{"goldCoins", "questPoints", "boneDust"}, names(selected))
}

func TestSelect_BothFlagsNeverGranted(t *testing.T) {
	def := &quest.Definition{
		ID: "odd",
		Rewards: []quest.RewardEntry{
			{Name: "relic", IsFirstTimeOnly: true, IsRepeatableReward: true},
		},
	}
	assert.Empty(t, Select(def, 0))
	assert.Empty(t, Select(def, 4))
}

func TestDistribute_FirstCompletion(t *testing.T) {
	f := newFixture(skeletonSlayer())
	f.wallet.On("GrantCurrency", 10).Return(nil).Once()
	f.wallet.On("GrantQuestPoints", 2).Return(nil).Once()
	f.inventory.On("TryAddItem", "boneShield").Return(true).Once()

	result := f.dist.Distribute("skeleton_slayer", 0)

	assert.True(t, result.Success)
	assert.True(t, result.FirstCompletion)
	assert.Equal(t, 10, result.GoldReceived)
	assert.Equal(t, 2, result.QuestPointsReceived)
	assert.Equal(t, []string{"boneShield"}, result.ItemsReceived)
	assert.Empty(t, result.ItemsDropped)
	assert.Equal(t, "Rewards: 10 gold; 2 quest points; received boneShield.", result.Message)
	f.assertExpectations(t)
}

func TestDistribute_RepeatCompletionSkipsFirstTimeOnly(t *testing.T) {
	f := newFixture(skeletonSlayer())
	f.wallet.On("GrantCurrency", 10).Return(nil).Once()
	f.wallet.On("GrantQuestPoints", 2).Return(nil).Once()
	f.inventory.On("TryAddItem", "boneDust").Return(true).Twice()

	result := f.dist.Distribute("skeleton_slayer", 1)

	assert.True(t, result.Success)
	assert.False(t, result.FirstCompletion)
	assert.Equal(t, []string{"boneDust", "boneDust"}, result.ItemsReceived)
	assert.Contains(t, result.Message, "received boneDust x2")
	f.inventory.AssertNotCalled(t, "TryAddItem", "boneShield")
	f.assertExpectations(t)
}

func TestDistribute_FullInventoryDropsNearPlayer(t *testing.T) {
	def := &quest.Definition{
		ID:      "herbalist",
		Rewards: []quest.RewardEntry{{Name: "herb", Kind: quest.RewardItem, Amount: 3}},
	}
	f := newFixture(def)
	f.inventory.On("TryAddItem", "herb").Return(true).Once()
	f.inventory.On("TryAddItem", "herb").Return(false).Twice()
	f.world.On("PlaceItem", "herb", mock.MatchedBy(func(p Position) bool {
		return p.X >= 4 && p.X <= 6 && p.Y >= 4 && p.Y <= 6
	})).Return(true).Twice()

	result := f.dist.Distribute("herbalist", 0)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"herb"}, result.ItemsReceived)
	assert.Equal(t, []string{"herb", "herb"}, result.ItemsDropped)
	assert.Equal(t, "Rewards: received herb; dropped nearby herb x2.", result.Message)
	f.assertExpectations(t)
}

func TestDistribute_ZeroOffsetDropsAtPlayer(t *testing.T) {
	def := &quest.Definition{
		ID:      "relic_hunt",
		Rewards: []quest.RewardEntry{{Name: "relic"}},
	}
	inv := &mockInventory{}
	world := &mockWorld{}
	inv.On("TryAddItem", "relic").Return(false)
	world.On("PlaceItem", "relic", Position{X: 2, Y: 3}).Return(true).Once()

	dist := NewDistributor(quest.NewCatalogFromDefinitions(def), Collaborators{
		Inventory: inv,
		World:     world,
		Player:    fixedPosition{X: 2, Y: 3},
	}, WithDropOffset(0))

	result := dist.Distribute("relic_hunt", 0)
	assert.True(t, result.Success)
	world.AssertExpectations(t)
}

func TestDistribute_ItemPlacementFailed(t *testing.T) {
	def := &quest.Definition{
		ID: "relic_hunt",
		Rewards: []quest.RewardEntry{
			{Name: quest.RewardNameGold, Kind: quest.RewardCurrency, Amount: 5},
			{Name: "relic"},
		},
	}
	f := newFixture(def)
	f.wallet.On("GrantCurrency", 5).Return(nil).Once()
	f.inventory.On("TryAddItem", "relic").Return(false).Once()
	f.world.On("PlaceItem", "relic", mock.Anything).Return(false).Twice()

	result := f.dist.Distribute("relic_hunt", 0)

	assert.False(t, result.Success)
	assert.Equal(t, 5, result.GoldReceived)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0], quest.ErrItemPlacementFailed)
	assert.Equal(t, "Rewards: 5 gold. Failed: no room for relic in your pack or on the ground.", result.Message)
	f.assertExpectations(t)
}

func TestDistribute_GrantFailureDoesNotAbortRemaining(t *testing.T) {
	def := &quest.Definition{
		ID: "bounty",
		Rewards: []quest.RewardEntry{
			{Name: quest.RewardNameGold, Kind: quest.RewardCurrency, Amount: 50},
			{Name: quest.RewardNameExperience, Kind: quest.RewardExperience, Amount: 120},
		},
	}
	f := newFixture(def)
	f.wallet.On("GrantCurrency", 50).Return(errors.New("purse is full")).Once()
	f.xp.On("AwardExperience", 120).Return(nil).Once()

	result := f.dist.Distribute("bounty", 0)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.GoldReceived)
	assert.Equal(t, 120, result.ExperienceReceived)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0], quest.ErrGrantFailed)
	assert.ErrorContains(t, result.Failures[0], "purse is full")
	f.assertExpectations(t)
}

func TestDistribute_ZeroAmountCurrencySkipped(t *testing.T) {
	def := &quest.Definition{
		ID:      "token",
		Rewards: []quest.RewardEntry{{Name: quest.RewardNameGold, Kind: quest.RewardCurrency}},
	}
	f := newFixture(def)

	result := f.dist.Distribute("token", 0)

	assert.True(t, result.Success)
	assert.Equal(t, "No rewards.", result.Message)
	f.wallet.AssertNotCalled(t, "GrantCurrency", mock.Anything)
}

func TestDistribute_MissingDefinition(t *testing.T) {
	f := newFixture()

	result := f.dist.Distribute("ghost_quest", 0)

	assert.False(t, result.Success)
	assert.Empty(t, result.Failures)
	assert.Contains(t, result.Message, "ghost_quest")
	f.assertExpectations(t)
}

func TestDistribute_MissingCollaborators(t *testing.T) {
	dist := NewDistributor(quest.NewCatalogFromDefinitions(skeletonSlayer()), Collaborators{})

	result := dist.Distribute("skeleton_slayer", 0)

	assert.False(t, result.Success)
	require.Len(t, result.Failures, 3)
	assert.ErrorIs(t, result.Failures[0], quest.ErrGrantFailed)
	assert.ErrorIs(t, result.Failures[1], quest.ErrGrantFailed)
	assert.ErrorIs(t, result.Failures[2], quest.ErrItemPlacementFailed)
}

func TestSummaryOrder(t *testing.T) {
	r := Result{
		GoldReceived:        3,
		QuestPointsReceived: 1,
		ExperienceReceived:  40,
		ItemsReceived:       []string{"a", "b", "a"},
		ItemsDropped:        []string{"c"},
	}
	assert.Equal(t, "Rewards: 3 gold; 1 quest points; 40 experience; received a x2, b; dropped nearby c.", r.Summary())
}

func TestDistribute_RetriesPlayerTileWhenOffsetSpotRejected(t *testing.T) {
	def := &quest.Definition{
		ID:      "relic_hunt",
		Rewards: []quest.RewardEntry{{Name: "relic", Kind: quest.RewardItem, Amount: 3}},
	}
	f := newFixture(def)
	f.inventory.On("TryAddItem", "relic").Return(false).Times(3)
	f.world.On("PlaceItem", "relic", Position{X: 5, Y: 5}).Return(true).Times(3)
	f.world.On("PlaceItem", "relic", mock.MatchedBy(func(p Position) bool {
		return p != Position{X: 5, Y: 5}
	})).Return(false).Times(3)

	result := f.dist.Distribute("relic_hunt", 0)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"relic", "relic", "relic"}, result.ItemsDropped)
	assert.Empty(t, result.Failures)
	f.assertExpectations(t)
}

func TestSummaryGroupsRepeatedFailures(t *testing.T) {
	r := Result{
		GoldReceived: 2,
		Failures: []error{
			quest.NewItemPlacementFailed("q", "herb"),
			quest.NewItemPlacementFailed("q", "herb"),
			quest.NewGrantFailed("q", "1 experience", errNoCollaborator),
			quest.NewItemPlacementFailed("q", "herb"),
		},
	}
	assert.Equal(t, "Rewards: 2 gold. Failed: no room for herb in your pack or on the ground (x3). Failed: could not grant 1 experience.", r.Summary())
}

func TestOffsetStaysInRange(t *testing.T) {
	d := NewDistributor(quest.NewCatalog(), Collaborators{}, WithDropOffset(2.5), WithRand(rand.New(rand.NewSource(7))))
	for i := 0; i < 1000; i++ {
		v := d.offset()
		assert.GreaterOrEqual(t, v, -2.5)
		assert.LessOrEqual(t, v, 2.5)
	}
}
