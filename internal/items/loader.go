package items

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ItemDefinition represents an item definition from the YAML file
type ItemDefinition struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Weight      float64 `yaml:"weight"`
	Type        string  `yaml:"type"`
	Value       int     `yaml:"value"`
	Unique      bool    `yaml:"unique,omitempty"`
}

// ItemsConfig represents the structure of the items.yaml file
type ItemsConfig struct {
	Items map[string]ItemDefinition `yaml:"items"`
}

// NewItemsConfig returns an empty config, used when no item file is configured
func NewItemsConfig() *ItemsConfig {
	return &ItemsConfig{Items: make(map[string]ItemDefinition)}
}

// LoadItemsFromYAML loads item definitions from a YAML file
func LoadItemsFromYAML(filename string) (*ItemsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var config ItemsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}
	if config.Items == nil {
		config.Items = make(map[string]ItemDefinition)
	}

	return &config, nil
}

// CreateItemFromDefinition creates an Item from an ItemDefinition
func CreateItemFromDefinition(id string, def ItemDefinition) *Item {
	return &Item{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Weight:      def.Weight,
		Type:        StringToItemType(def.Type),
		Value:       def.Value,
		Unique:      def.Unique,
	}
}

// GetItemByID returns a fresh item unit by template ID
func (config *ItemsConfig) GetItemByID(id string) (*Item, bool) {
	def, exists := config.Items[id]
	if !exists {
		return nil, false
	}
	return CreateItemFromDefinition(id, def), true
}

// CreateItem returns a unit for id, falling back to a placeholder for unknown templates
func (config *ItemsConfig) CreateItem(id string) *Item {
	if item, ok := config.GetItemByID(id); ok {
		return item
	}
	return Placeholder(id)
}

// MissingIDs returns the subset of ids with no definition, sorted
func (config *ItemsConfig) MissingIDs(ids []string) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, id := range ids {
		if _, ok := config.Items[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}
	sort.Strings(missing)
	return missing
}
