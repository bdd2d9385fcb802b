package quest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"gopkg.in/yaml.v3"
)

// ObjectiveYAML for YAML parsing
type ObjectiveYAML struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Target      string `yaml:"target"`      // What the objective tracks (e.g. creature kind)
	TargetName  string `yaml:"target_name"` // Display name
	Amount      int    `yaml:"amount"`      // Amount needed
	Repeat      bool   `yaml:"repeat"`      // Only shown on repeat completions
}

// RewardYAML for YAML parsing
type RewardYAML struct {
	Name             string `yaml:"name"`
	Kind             string `yaml:"kind,omitempty"` // Optional override: item, currency, quest_points, experience
	Amount           int    `yaml:"amount,omitempty"`
	FirstTimeOnly    bool   `yaml:"first_time_only,omitempty"`
	RepeatableReward bool   `yaml:"repeatable_reward,omitempty"`
}

// QuestDefinition for YAML parsing
type QuestDefinition struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Type        string          `yaml:"type"` // kill, collect, deliver
	GiverNPC    string          `yaml:"giver_npc"`
	TurnInNPC   string          `yaml:"turn_in_npc"`
	Repeatable  bool            `yaml:"repeatable"`
	Objectives  []ObjectiveYAML `yaml:"objectives"`
	Rewards     []RewardYAML    `yaml:"rewards"`
}

// QuestsConfig represents the quests.yaml structure
type QuestsConfig struct {
	Quests map[string]QuestDefinition `yaml:"quests"`
}

// LoadQuestsFromYAML loads quest definitions from YAML file
func LoadQuestsFromYAML(filename string) (*QuestsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read quests file: %w", err)
	}

	return ParseQuestsYAML(data)
}

// ParseQuestsYAML parses quest definitions from raw YAML
func ParseQuestsYAML(data []byte) (*QuestsConfig, error) {
	var config QuestsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse quests YAML: %w", err)
	}
	if config.Quests == nil {
		config.Quests = make(map[string]QuestDefinition)
	}

	return &config, nil
}

// Validate reports every structural problem in the config at once.
func (config *QuestsConfig) Validate() error {
	var errs []error
	seen := make(map[string]string, len(config.Quests))
	for id := range config.Quests {
		key := normalizeID(id)
		if other, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("quest ids %s and %s collide once lowercased", other, id))
		}
		seen[key] = id
	}
	for id, def := range config.Quests {
		if def.Title == "" {
			errs = append(errs, fmt.Errorf("quest %s: missing title", id))
		}
		for i, obj := range def.Objectives {
			if obj.Target == "" {
				errs = append(errs, fmt.Errorf("quest %s: objective %d has no target", id, i))
			}
			if obj.Amount <= 0 {
				errs = append(errs, fmt.Errorf("quest %s: objective %d amount must be positive, got %d", id, i, obj.Amount))
			}
		}
		for i, r := range def.Rewards {
			if r.Name == "" {
				errs = append(errs, fmt.Errorf("quest %s: reward %d has no name", id, i))
			}
			if _, err := resolveRewardKind(r.Name, r.Kind); err != nil {
				errs = append(errs, fmt.Errorf("quest %s: reward %d: %w", id, i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// GetQuestByID returns a Definition from the config
func (config *QuestsConfig) GetQuestByID(id string) (*Definition, bool) {
	def, exists := config.Quests[id]
	if !exists {
		return nil, false
	}

	return createDefinition(id, &def), true
}

// normalizeID lowercases identifiers players type: quest ids, targets and NPC ids
func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// createDefinition converts a YAML definition to a Definition
func createDefinition(id string, def *QuestDefinition) *Definition {
	id = normalizeID(id)
	objectives := make([]ObjectiveTemplate, len(def.Objectives))
	for i, objDef := range def.Objectives {
		objID := objDef.ID
		if objID == "" {
			objID = fmt.Sprintf("%s_%d", id, i+1)
		}
		objectives[i] = ObjectiveTemplate{
			ID:                objID,
			Description:       objDef.Description,
			Target:            normalizeID(objDef.Target),
			TargetName:        objDef.TargetName,
			Amount:            objDef.Amount,
			IsRepeatObjective: objDef.Repeat,
		}
	}

	rewards := make([]RewardEntry, 0, len(def.Rewards))
	for _, r := range def.Rewards {
		kind, err := resolveRewardKind(r.Name, r.Kind)
		if err != nil {
			// Validate reports this; treat as an item so nothing is silently lost
			kind = RewardItem
		}
		if r.FirstTimeOnly && r.RepeatableReward {
			logger.Warning("Reward flagged both first-time-only and repeatable, it will never be granted",
				"quest_id", id, "reward", r.Name)
		}
		rewards = append(rewards, RewardEntry{
			Name:               r.Name,
			Kind:               kind,
			Amount:             r.Amount,
			IsFirstTimeOnly:    r.FirstTimeOnly,
			IsRepeatableReward: r.RepeatableReward,
		})
	}

	return &Definition{
		ID:                 id,
		Title:              def.Title,
		Description:        def.Description,
		Type:               parseQuestType(def.Type),
		GiverNPC:           normalizeID(def.GiverNPC),
		TurnInNPC:          normalizeID(def.TurnInNPC),
		IsRepeatable:       def.Repeatable,
		ObjectiveTemplates: objectives,
		Rewards:            rewards,
	}
}

// resolveRewardKind maps a reward name (or explicit kind override) to a RewardKind.
func resolveRewardKind(name, override string) (RewardKind, error) {
	switch override {
	case "":
	case "item":
		return RewardItem, nil
	case "currency", "gold":
		return RewardCurrency, nil
	case "quest_points":
		return RewardQuestPoints, nil
	case "experience", "xp":
		return RewardExperience, nil
	default:
		return RewardItem, fmt.Errorf("unknown reward kind %q", override)
	}

	switch name {
	case RewardNameGold:
		return RewardCurrency, nil
	case RewardNameQuestPoints:
		return RewardQuestPoints, nil
	case RewardNameExperience:
		return RewardExperience, nil
	default:
		return RewardItem, nil
	}
}

// parseQuestType converts string to QuestType
func parseQuestType(s string) QuestType {
	switch s {
	case "collect":
		return QuestTypeCollect
	case "deliver":
		return QuestTypeDeliver
	default:
		return QuestTypeKill // Default fallback
	}
}

// Merge combines another QuestsConfig into this one
func (config *QuestsConfig) Merge(other *QuestsConfig) {
	if other == nil {
		return
	}
	for id, def := range other.Quests {
		config.Quests[id] = def
	}
}

// LoadQuestsFromDirectory loads and merges all YAML files from a directory
func LoadQuestsFromDirectory(dir string) (*QuestsConfig, error) {
	merged := &QuestsConfig{
		Quests: make(map[string]QuestDefinition),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fileCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		filePath := filepath.Join(dir, name)
		config, err := LoadQuestsFromYAML(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		merged.Merge(config)
		fileCount++
		logger.Info("Loaded quest file", "path", filePath, "quests", len(config.Quests))
	}

	logger.Info("Loaded quests from directory", "dir", dir, "files", fileCount, "total_quests", len(merged.Quests))
	return merged, nil
}

// LoadQuests loads from a single file or a directory of files, whichever path points at.
func LoadQuests(path string) (*QuestsConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat quests path: %w", err)
	}
	if info.IsDir() {
		return LoadQuestsFromDirectory(path)
	}
	return LoadQuestsFromYAML(path)
}
