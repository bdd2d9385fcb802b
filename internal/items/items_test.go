package items

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsYAML = `items:
  boneShield:
    name: Bone Shield
    description: Ribs lashed to a plank.
    weight: 6
    type: shield
    value: 25
    unique: true
  herb:
    name: Healing Herb
    weight: 0.1
    type: consumable
`

func writeItems(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte(itemsYAML), 0644))
	return path
}

func TestLoadItemsFromYAML(t *testing.T) {
	config, err := LoadItemsFromYAML(writeItems(t))
	require.NoError(t, err)
	require.Len(t, config.Items, 2)

	shield, ok := config.GetItemByID("boneShield")
	require.True(t, ok)
	assert.Equal(t, "boneShield", shield.ID)
	assert.Equal(t, "Bone Shield", shield.Name)
	assert.Equal(t, 6.0, shield.Weight)
	assert.Equal(t, Armor, shield.Type)
	assert.True(t, shield.Unique)

	herb, ok := config.GetItemByID("herb")
	require.True(t, ok)
	assert.Equal(t, Consumable, herb.Type)
}

func TestLoadItemsFromYAML_Errors(t *testing.T) {
	_, err := LoadItemsFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("items: [oops"), 0644))
	_, err = LoadItemsFromYAML(bad)
	assert.Error(t, err)
}

func TestCreateItem_Placeholder(t *testing.T) {
	config := NewItemsConfig()

	item := config.CreateItem("mysteryBox")

	assert.Equal(t, "mysteryBox", item.ID)
	assert.Equal(t, "mysteryBox", item.Name)
	assert.Zero(t, item.Weight)
}

func TestCreateItem_FreshUnits(t *testing.T) {
	config, err := LoadItemsFromYAML(writeItems(t))
	require.NoError(t, err)

	a := config.CreateItem("herb")
	b := config.CreateItem("herb")

	assert.NotSame(t, a, b)
}

func TestMissingIDs(t *testing.T) {
	config, err := LoadItemsFromYAML(writeItems(t))
	require.NoError(t, err)

	missing := config.MissingIDs([]string{"herb", "zeta", "alpha", "zeta"})

	assert.Equal(t, []string{"alpha", "zeta"}, missing)
}

func TestCollection(t *testing.T) {
	var bag []*Item
	AddItem(&bag, &Item{ID: "herb", Weight: 0.5})
	AddItem(&bag, &Item{ID: "herb", Weight: 0.5})
	AddItem(&bag, &Item{ID: "boneShield", Weight: 6})

	assert.Equal(t, 2, CountByID(bag, "herb"))
	assert.InDelta(t, 7.0, GetTotalWeight(bag), 0.001)

	removed, ok := RemoveItemByID(&bag, "herb")
	require.True(t, ok)
	assert.Equal(t, "herb", removed.ID)
	assert.Len(t, bag, 2)

	_, ok = RemoveItemByID(&bag, "nothing")
	assert.False(t, ok)
}

func TestStringToItemType(t *testing.T) {
	tests := []struct {
		input    string
		expected ItemType
	}{
		{"weapon", Weapon},
		{"armor", Armor},
		{"shield", Armor},
		{"potion", Consumable},
		{"trophy", Trophy},
		{"", Misc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringToItemType(tt.input))
			assert.NotEqual(t, "unknown", tt.expected.String())
		})
	}
}

func TestItemString(t *testing.T) {
	item := &Item{Name: "Bone Shield", Weight: 6}
	assert.Equal(t, "Bone Shield (6.0 lbs)", item.String())
}
