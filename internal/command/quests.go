package command

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/questkeeper/internal/reward"
)

// executeJournal handles the quests/journal command
func executeJournal(c *Command, ctx *Context) string {
	if len(c.Args) > 0 {
		return showQuestDetails(strings.ToLower(c.Args[0]), ctx)
	}

	active := ctx.Quests.Active()
	completed := ctx.Quests.Completed()

	if len(active) == 0 && len(completed) == 0 {
		return "Your quest journal is empty. Use 'available <npc>' to find quests!"
	}

	var sb strings.Builder
	sb.WriteString("=== Quest Journal ===\n")
	sb.WriteString(fmt.Sprintf("Active Quests: %d\n", len(active)))
	sb.WriteString(fmt.Sprintf("Completed Quests: %d\n", len(completed)))

	for _, inst := range active {
		sb.WriteString(fmt.Sprintf("\n%s %s (%s)\n", statusTag(inst), inst.Title, inst.ID))
		questType := ctx.questType(inst.ID)
		sb.WriteString(FormatObjectives(inst, questType))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// showQuestDetails shows details for a specific active quest
func showQuestDetails(questID string, ctx *Context) string {
	inst, ok := ctx.Quests.Instance(questID)
	if !ok {
		return fmt.Sprintf("No active quest '%s'. Use 'quests' to see your journal.", questID)
	}

	def, _ := ctx.Catalog.Get(questID)
	return FormatQuestDetails(inst, def)
}

// executeAvailable lists the quests an NPC offers the player
func executeAvailable(c *Command, ctx *Context) string {
	if err := c.RequireArgs(1, "Usage: available <npc>"); err != nil {
		return err.Error()
	}
	npcID := strings.ToLower(c.Args[0])

	offers := ctx.Quests.Available(npcID)
	if len(offers) == 0 {
		return fmt.Sprintf("%s has nothing for you right now.", npcID)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== Quests from %s ===\n", npcID))
	for _, def := range offers {
		tag := ""
		countBefore := 0
		if ctx.Quests.CanRepeat(def.ID) {
			tag = " [REPEATABLE]"
			record, _ := ctx.Quests.History(def.ID)
			countBefore = record.CompletionCount
		}
		sb.WriteString(fmt.Sprintf("\n%s (%s)%s\n", def.Title, def.ID, tag))
		if def.Description != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", def.Description))
		}
		sb.WriteString("  Rewards:\n")
		sb.WriteString(indent(FormatRewardPreview(reward.Select(def, countBefore))))
	}
	sb.WriteString("\nUse 'accept <id>' to accept a quest.")

	return sb.String()
}

// executeAccept handles the accept command for quests
func executeAccept(c *Command, ctx *Context) string {
	if err := c.RequireArgs(1, "Usage: accept <quest id>"); err != nil {
		return err.Error()
	}
	questID := strings.ToLower(c.Args[0])

	inst, err := ctx.Quests.Accept(questID)
	if err != nil {
		return errorText(err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You accept the quest: %s\n", inst.Title))
	if inst.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n", inst.Description))
	}
	sb.WriteString("\nObjectives:\n")
	sb.WriteString(FormatObjectives(inst, ctx.questType(questID)))

	return strings.TrimSuffix(sb.String(), "\n")
}

// executeKill reports a creature death to the quest journal
func executeKill(c *Command, ctx *Context) string {
	if err := c.RequireArgs(1, "Usage: kill <target>"); err != nil {
		return err.Error()
	}
	target := strings.ToLower(c.Args[0])

	ctx.Player.Statistics().RecordKill(target)
	result := ctx.Quests.RecordKill(target)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You slay the %s.", target))
	for _, inst := range result.Touched {
		for _, obj := range inst.Objectives {
			if obj.Target != target {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n  %s: %s %d/%d", inst.Title, targetLabel(obj), obj.Current, obj.Amount))
		}
	}

	return sb.String()
}

// executeTurnIn handles the turnin/complete command
func executeTurnIn(c *Command, ctx *Context) string {
	if err := c.RequireArgs(1, "Usage: turnin <quest id>"); err != nil {
		return err.Error()
	}
	questID := strings.ToLower(c.Args[0])

	result, err := ctx.Quests.TurnIn(questID)
	if err != nil {
		return errorText(err)
	}

	ctx.Player.Statistics().RecordQuestCompleted()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Quest complete: %s!\n", result.Instance.Title))
	if result.FirstCompletion {
		sb.WriteString("First completion!\n")
	} else {
		sb.WriteString(fmt.Sprintf("Completed %d times.\n", result.CompletionCount))
	}
	sb.WriteString(result.Rewards.Message)

	return sb.String()
}

// executeHistory shows the completion ledger entry for a quest
func executeHistory(c *Command, ctx *Context) string {
	if err := c.RequireArgs(1, "Usage: history <quest id>"); err != nil {
		return err.Error()
	}
	questID := strings.ToLower(c.Args[0])

	record, ok := ctx.Quests.History(questID)
	if !ok {
		return fmt.Sprintf("You have never completed '%s'.", questID)
	}

	title := questID
	if def, ok := ctx.Catalog.Get(questID); ok {
		title = def.Title
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: completed %d time(s)\n", title, record.CompletionCount))
	sb.WriteString(fmt.Sprintf("  First: %s\n", record.FirstCompletedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("  Last:  %s", record.LastCompletedAt.Format("2006-01-02 15:04")))
	if record.IsRepeatable {
		if ctx.Quests.CanRepeat(questID) {
			sb.WriteString("\n  Available to repeat.")
		} else {
			sb.WriteString("\n  Repeatable.")
		}
	}

	return sb.String()
}

// executeCompleted lists every quest the player has turned in
func executeCompleted(ctx *Context) string {
	completed := ctx.Quests.Completed()
	if len(completed) == 0 {
		return "You haven't completed any quests yet."
	}

	var sb strings.Builder
	sb.WriteString("=== Completed Quests ===")
	for _, inst := range completed {
		count := 0
		if record, ok := ctx.Quests.History(inst.ID); ok {
			count = record.CompletionCount
		}
		sb.WriteString(fmt.Sprintf("\n  %s (%s) x%d", inst.Title, inst.ID, count))
	}
	return sb.String()
}

func indent(s string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
