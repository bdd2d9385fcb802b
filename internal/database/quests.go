package database

import (
	"database/sql"
	"fmt"

	"github.com/lawnchairsociety/questkeeper/internal/quest"
)

// LoadQuests reads every stored quest into the same shape the YAML loader produces.
func (d *Database) LoadQuests() (*quest.QuestsConfig, error) {
	config := &quest.QuestsConfig{Quests: make(map[string]quest.QuestDefinition)}

	rows, err := d.db.Query(`SELECT id, title, description, quest_type, giver_npc, turn_in_npc, repeatable FROM quests`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quests: %w", err)
	}

	for rows.Next() {
		var id string
		var def quest.QuestDefinition
		var repeatable int
		if err := rows.Scan(&id, &def.Title, &def.Description, &def.Type, &def.GiverNPC, &def.TurnInNPC, &repeatable); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan quest: %w", err)
		}
		def.Repeatable = repeatable != 0
		config.Quests[id] = def
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate quests: %w", err)
	}
	rows.Close()

	if err := d.loadObjectives(config); err != nil {
		return nil, err
	}
	if err := d.loadRewards(config); err != nil {
		return nil, err
	}

	return config, nil
}

func (d *Database) loadObjectives(config *quest.QuestsConfig) error {
	rows, err := d.db.Query(`SELECT quest_id, objective_id, description, target, target_name, amount, repeat_objective
		FROM quest_objectives ORDER BY quest_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query quest objectives: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questID string
		var obj quest.ObjectiveYAML
		var repeat int
		if err := rows.Scan(&questID, &obj.ID, &obj.Description, &obj.Target, &obj.TargetName, &obj.Amount, &repeat); err != nil {
			return fmt.Errorf("failed to scan quest objective: %w", err)
		}
		obj.Repeat = repeat != 0

		def, ok := config.Quests[questID]
		if !ok {
			continue
		}
		def.Objectives = append(def.Objectives, obj)
		config.Quests[questID] = def
	}
	return rows.Err()
}

func (d *Database) loadRewards(config *quest.QuestsConfig) error {
	rows, err := d.db.Query(`SELECT quest_id, name, kind, amount, first_time_only, repeatable_reward
		FROM quest_rewards ORDER BY quest_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query quest rewards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questID string
		var r quest.RewardYAML
		var firstTime, repeatable int
		if err := rows.Scan(&questID, &r.Name, &r.Kind, &r.Amount, &firstTime, &repeatable); err != nil {
			return fmt.Errorf("failed to scan quest reward: %w", err)
		}
		r.FirstTimeOnly = firstTime != 0
		r.RepeatableReward = repeatable != 0

		def, ok := config.Quests[questID]
		if !ok {
			continue
		}
		def.Rewards = append(def.Rewards, r)
		config.Quests[questID] = def
	}
	return rows.Err()
}

// SaveQuest inserts or replaces a quest with its objectives and rewards in one transaction.
func (d *Database) SaveQuest(id string, def quest.QuestDefinition) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(d.qb.Build(`INSERT INTO quests (id, title, description, quest_type, giver_npc, turn_in_npc, repeatable)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			quest_type = excluded.quest_type,
			giver_npc = excluded.giver_npc,
			turn_in_npc = excluded.turn_in_npc,
			repeatable = excluded.repeatable`),
		id, def.Title, def.Description, def.Type, def.GiverNPC, def.TurnInNPC, boolToInt(def.Repeatable))
	if err != nil {
		return fmt.Errorf("failed to save quest %s: %w", id, err)
	}

	if _, err := tx.Exec(d.qb.Build(`DELETE FROM quest_objectives WHERE quest_id = ?`), id); err != nil {
		return fmt.Errorf("failed to clear objectives for %s: %w", id, err)
	}
	if _, err := tx.Exec(d.qb.Build(`DELETE FROM quest_rewards WHERE quest_id = ?`), id); err != nil {
		return fmt.Errorf("failed to clear rewards for %s: %w", id, err)
	}

	for i, obj := range def.Objectives {
		_, err := tx.Exec(d.qb.Build(`INSERT INTO quest_objectives
			(quest_id, position, objective_id, description, target, target_name, amount, repeat_objective)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			id, i, obj.ID, obj.Description, obj.Target, obj.TargetName, obj.Amount, boolToInt(obj.Repeat))
		if err != nil {
			return fmt.Errorf("failed to save objective %d for %s: %w", i, id, err)
		}
	}

	for i, r := range def.Rewards {
		_, err := tx.Exec(d.qb.Build(`INSERT INTO quest_rewards
			(quest_id, position, name, kind, amount, first_time_only, repeatable_reward)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			id, i, r.Name, r.Kind, r.Amount, boolToInt(r.FirstTimeOnly), boolToInt(r.RepeatableReward))
		if err != nil {
			return fmt.Errorf("failed to save reward %d for %s: %w", i, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quest %s: %w", id, err)
	}
	return nil
}

// DeleteQuest removes a quest and, by cascade, its objectives and rewards.
// Returns false if no quest had that ID.
func (d *Database) DeleteQuest(id string) (bool, error) {
	result, err := d.db.Exec(d.qb.Build(`DELETE FROM quests WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete quest %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete quest %s: %w", id, err)
	}
	return n > 0, nil
}

// QuestExists reports whether a quest with the ID is stored
func (d *Database) QuestExists(id string) (bool, error) {
	var one int
	err := d.db.QueryRow(d.qb.Build(`SELECT 1 FROM quests WHERE id = ?`), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up quest %s: %w", id, err)
	}
	return true, nil
}

// CountQuests returns the number of stored quests
func (d *Database) CountQuests() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM quests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quests: %w", err)
	}
	return count, nil
}

// SaveQuests stores every quest of a config. It stops at the first failure.
func (d *Database) SaveQuests(config *quest.QuestsConfig) (int, error) {
	saved := 0
	for id, def := range config.Quests {
		if err := d.SaveQuest(id, def); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
