package reward

import (
	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
)

// ItemTemplates reports which template IDs are unknown (satisfied by *items.ItemsConfig)
type ItemTemplates interface {
	MissingIDs(ids []string) []string
}

// CheckItemRewards warns about item rewards that name no known template.
// Such rewards still grant a placeholder item; the result maps quest ID to missing IDs.
func CheckItemRewards(defs []*quest.Definition, templates ItemTemplates) map[string][]string {
	missing := make(map[string][]string)
	for _, def := range defs {
		ids := templates.MissingIDs(def.ItemRewardIDs())
		if len(ids) == 0 {
			continue
		}
		missing[def.ID] = ids
		logger.Warning("Quest rewards reference unknown items", "quest_id", def.ID, "items", ids)
	}
	return missing
}
