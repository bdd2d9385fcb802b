package quest

// ObjectiveProgress tracks progress on a single objective of an accepted quest
type ObjectiveProgress struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Target      string `json:"target"`
	TargetName  string `json:"target_name,omitempty"`
	Amount      int    `json:"amount"`
	Current     int    `json:"current"`
	Completed   bool   `json:"completed"`
}

// Instance is a player's copy of a quest, created on accept
type Instance struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Objectives    []ObjectiveProgress `json:"objectives"`
	Completed     bool                `json:"completed"`
	ReadyToTurnIn bool                `json:"ready_to_turn_in"`
}

// NewInstance creates an instance whose objectives are the subset of templates
// that apply for the given completion count. All objectives start at zero.
func NewInstance(def *Definition, completionCount int) *Instance {
	templates := def.ObjectivesFor(completionCount)
	objectives := make([]ObjectiveProgress, len(templates))
	for i, tmpl := range templates {
		objectives[i] = ObjectiveProgress{
			ID:          tmpl.ID,
			Description: tmpl.Description,
			Target:      tmpl.Target,
			TargetName:  tmpl.TargetName,
			Amount:      tmpl.Amount,
		}
	}

	inst := &Instance{
		ID:          def.ID,
		Title:       def.Title,
		Description: def.Description,
		Objectives:  objectives,
	}
	inst.ReadyToTurnIn = inst.allObjectivesComplete()
	return inst
}

// allObjectivesComplete is true for an instance with no objectives
func (inst *Instance) allObjectivesComplete() bool {
	for _, obj := range inst.Objectives {
		if !obj.Completed {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers can't mutate engine state
func (inst *Instance) Clone() *Instance {
	if inst == nil {
		return nil
	}
	clone := *inst
	clone.Objectives = make([]ObjectiveProgress, len(inst.Objectives))
	copy(clone.Objectives, inst.Objectives)
	return &clone
}

// ProgressResult summarizes one progress event
type ProgressResult struct {
	Target     string
	Touched    []*Instance // Instances with at least one objective advanced
	NewlyReady []*Instance // Instances that moved from not-ready to ready
}

// ApplyProgress advances every incomplete objective matching target by exactly one,
// across all active instances, and recomputes readiness for the touched ones.
func ApplyProgress(active []*Instance, target string) ProgressResult {
	result := ProgressResult{Target: target}

	for _, inst := range active {
		if inst.Completed {
			continue
		}

		touched := false
		for i := range inst.Objectives {
			obj := &inst.Objectives[i]
			if obj.Completed || obj.Target != target {
				continue
			}
			obj.Current++
			obj.Completed = obj.Current >= obj.Amount
			touched = true
		}
		if !touched {
			continue
		}

		wasReady := inst.ReadyToTurnIn
		inst.ReadyToTurnIn = inst.allObjectivesComplete()
		result.Touched = append(result.Touched, inst)
		if inst.ReadyToTurnIn && !wasReady {
			result.NewlyReady = append(result.NewlyReady, inst)
		}
	}

	return result
}
