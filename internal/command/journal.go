package command

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/questkeeper/internal/quest"
	"github.com/lawnchairsociety/questkeeper/internal/questlog"
)

// getObjectiveVerb returns the appropriate verb for a quest type
func getObjectiveVerb(questType quest.QuestType) string {
	switch questType {
	case quest.QuestTypeKill:
		return "Kill"
	case quest.QuestTypeCollect:
		return "Collect"
	case quest.QuestTypeDeliver:
		return "Deliver"
	default:
		return "Complete"
	}
}

func targetLabel(obj quest.ObjectiveProgress) string {
	if obj.TargetName != "" {
		return obj.TargetName
	}
	return obj.Target
}

func statusTag(inst *quest.Instance) string {
	if inst.ReadyToTurnIn {
		return "[READY]"
	}
	return "[IN PROGRESS]"
}

// FormatObjectives renders one line per objective with a checkbox and counter
func FormatObjectives(inst *quest.Instance, questType quest.QuestType) string {
	if len(inst.Objectives) == 0 {
		return "  (nothing left to do)\n"
	}

	var sb strings.Builder
	verb := getObjectiveVerb(questType)
	for _, obj := range inst.Objectives {
		check := " "
		if obj.Completed {
			check = "x"
		}
		sb.WriteString(fmt.Sprintf("  [%s] %s %s: %d/%d\n", check, verb, targetLabel(obj), obj.Current, obj.Amount))
	}
	return sb.String()
}

// FormatQuestDetails renders an active quest with its description, objectives, and turn-in NPC
func FormatQuestDetails(inst *quest.Instance, def *quest.Definition) string {
	var sb strings.Builder

	questType := quest.QuestTypeKill
	if def != nil {
		questType = def.Type
	}

	sb.WriteString(fmt.Sprintf("=== %s %s ===\n", statusTag(inst), inst.Title))
	if inst.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n", inst.Description))
	}
	sb.WriteString("\nObjectives:\n")
	sb.WriteString(FormatObjectives(inst, questType))

	if def != nil && def.TurnInNPC != "" {
		sb.WriteString(fmt.Sprintf("\nTurn in to: %s\n", def.TurnInNPC))
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatRewardPreview lists the rewards a definition would grant on its next completion
func FormatRewardPreview(entries []quest.RewardEntry) string {
	if len(entries) == 0 {
		return "  (none)\n"
	}

	var sb strings.Builder
	for _, r := range entries {
		switch r.Kind {
		case quest.RewardCurrency:
			sb.WriteString(fmt.Sprintf("  - %d gold\n", r.Amount))
		case quest.RewardQuestPoints:
			sb.WriteString(fmt.Sprintf("  - %d quest points\n", r.Amount))
		case quest.RewardExperience:
			sb.WriteString(fmt.Sprintf("  - %d experience\n", r.Amount))
		default:
			if r.Units() > 1 {
				sb.WriteString(fmt.Sprintf("  - %s x%d\n", r.Name, r.Units()))
			} else {
				sb.WriteString(fmt.Sprintf("  - %s\n", r.Name))
			}
		}
	}
	return sb.String()
}

// LineNotifier renders lifecycle events as single text lines and hands them to Send.
type LineNotifier struct {
	Catalog CatalogInterface
	Send    func(line string)
}

var _ questlog.Notifier = (*LineNotifier)(nil)

func (n *LineNotifier) send(format string, args ...any) {
	if n.Send != nil {
		n.Send(fmt.Sprintf(format, args...))
	}
}

// QuestAccepted implements questlog.Notifier
func (n *LineNotifier) QuestAccepted(inst *quest.Instance) {
	n.send("[Quest] Accepted: %s", inst.Title)
}

// QuestProgress implements questlog.Notifier
func (n *LineNotifier) QuestProgress(ev questlog.ProgressEvent) {
	n.send("[Quest] Progress on %s: %d quest(s) advanced, %d now ready", ev.Target, ev.Touched, ev.NewlyReady)
}

// QuestReady implements questlog.Notifier
func (n *LineNotifier) QuestReady(inst *quest.Instance) {
	turnIn := ""
	if n.Catalog != nil {
		if def, ok := n.Catalog.Get(inst.ID); ok && def.TurnInNPC != "" {
			turnIn = fmt.Sprintf(" Return to %s.", def.TurnInNPC)
		}
	}
	n.send("[Quest] %s is ready to turn in.%s", inst.Title, turnIn)
}

// QuestTurnedIn implements questlog.Notifier
func (n *LineNotifier) QuestTurnedIn(ev questlog.TurnedInEvent) {
	if ev.FirstCompletion {
		n.send("[Quest] Completed: %s!", ev.Instance.Title)
		return
	}
	n.send("[Quest] Completed: %s (x%d)", ev.Instance.Title, ev.CompletionCount)
}
