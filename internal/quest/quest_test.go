package quest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skeletonSlayer() *Definition {
	return &Definition{
		ID:           "skeleton_slayer",
		Title:        "Skeleton Slayer",
		Type:         QuestTypeKill,
		IsRepeatable: true,
		ObjectiveTemplates: []ObjectiveTemplate{
			{ID: "bones", Target: "decayed-skeleton", Amount: 10},
			{ID: "more_bones", Target: "decayed-skeleton", Amount: 5, IsRepeatObjective: true},
			{ID: "skulls", Target: "skeleton-lord", Amount: 1, IsRepeatObjective: true},
		},
		Rewards: []RewardEntry{
			{Name: RewardNameGold, Kind: RewardCurrency, Amount: 10},
			{Name: RewardNameQuestPoints, Kind: RewardQuestPoints, Amount: 2},
			{Name: "boneShield", Kind: RewardItem, IsFirstTimeOnly: true},
		},
	}
}

func TestObjectivesFor(t *testing.T) {
	def := skeletonSlayer()

	first := def.ObjectivesFor(0)
	require.Len(t, first, 1)
	assert.Equal(t, "bones", first[0].ID)

	repeat := def.ObjectivesFor(3)
	require.Len(t, repeat, 2)
	assert.Equal(t, "more_bones", repeat[0].ID)
	assert.Equal(t, "skulls", repeat[1].ID)

	assert.True(t, def.HasRepeatObjectives())
}

func TestItemRewardIDs(t *testing.T) {
	assert.Equal(t, []string{"boneShield"}, skeletonSlayer().ItemRewardIDs())
}

func TestRewardEntryUnits(t *testing.T) {
	assert.Equal(t, 1, RewardEntry{Name: "herb"}.Units())
	assert.Equal(t, 1, RewardEntry{Name: "herb", Amount: -2}.Units())
	assert.Equal(t, 3, RewardEntry{Name: "herb", Amount: 3}.Units())
}

func TestRewardKindString(t *testing.T) {
	tests := []struct {
		kind     RewardKind
		expected string
	}{
		{RewardItem, "item"},
		{RewardCurrency, "currency"},
		{RewardQuestPoints, "quest_points"},
		{RewardExperience, "experience"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := NewNotReady("skeleton_slayer")

	assert.True(t, errors.Is(err, ErrNotReady))
	assert.False(t, errors.Is(err, ErrNotActive))
	assert.Equal(t, "skeleton_slayer", err.QuestID)
	assert.Contains(t, err.Error(), string(CodeNotReady))

	wrapped := fmt.Errorf("turn in: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotReady))

	var qerr *Error
	require.True(t, errors.As(wrapped, &qerr))
	assert.Equal(t, CodeNotReady, qerr.Code)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("wallet offline")
	err := NewGrantFailed("q", "10 gold", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGrantFailed)
	assert.Equal(t, "GRANT_FAILED: could not grant 10 gold: wallet offline", err.Error())
}
