package quest

import (
	"sort"
	"sync"
)

// Catalog holds all loaded quest definitions. Lookups are read-only.
type Catalog struct {
	mu          sync.RWMutex
	quests      map[string]*Definition   // questID -> Definition
	questsByNPC map[string][]*Definition // npcID -> quests they give
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		quests:      make(map[string]*Definition),
		questsByNPC: make(map[string][]*Definition),
	}
}

// NewCatalogFromDefinitions builds a catalog from already constructed definitions.
func NewCatalogFromDefinitions(defs ...*Definition) *Catalog {
	c := NewCatalog()
	for _, def := range defs {
		c.add(def)
	}
	return c
}

// LoadFromConfig validates and populates the catalog from a QuestsConfig.
// The previous contents are replaced only if the config is valid.
func (c *Catalog) LoadFromConfig(config *QuestsConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.quests = make(map[string]*Definition)
	c.questsByNPC = make(map[string][]*Definition)

	for id, def := range config.Quests {
		c.add(createDefinition(id, &def))
	}
	return nil
}

// add must be called with the lock held (or before the catalog is shared)
func (c *Catalog) add(def *Definition) {
	c.quests[def.ID] = def
	if def.GiverNPC != "" {
		c.questsByNPC[def.GiverNPC] = append(c.questsByNPC[def.GiverNPC], def)
		sort.Slice(c.questsByNPC[def.GiverNPC], func(i, j int) bool {
			return c.questsByNPC[def.GiverNPC][i].ID < c.questsByNPC[def.GiverNPC][j].ID
		})
	}
}

// Get returns a definition by ID. A missing ID is reported with false, never a panic.
func (c *Catalog) Get(id string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, exists := c.quests[id]
	return def, exists
}

// QuestsForGiver returns all quests an NPC offers, ordered by ID
func (c *Catalog) QuestsForGiver(npcID string) []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quests := c.questsByNPC[npcID]
	result := make([]*Definition, len(quests))
	copy(result, quests)
	return result
}

// All returns every definition ordered by ID
func (c *Catalog) All() []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quests := make([]*Definition, 0, len(c.quests))
	for _, def := range c.quests {
		quests = append(quests, def)
	}
	sort.Slice(quests, func(i, j int) bool { return quests[i].ID < quests[j].ID })
	return quests
}

// Count returns the number of registered quests
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.quests)
}

// LoadFromPath loads quests from a YAML file or a directory of YAML files
func (c *Catalog) LoadFromPath(path string) error {
	config, err := LoadQuests(path)
	if err != nil {
		return err
	}
	return c.LoadFromConfig(config)
}
