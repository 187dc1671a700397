package memory

import (
	"sort"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
)

// CommunityGoals tracks joined community goals for the session. Goals
// are global, so they are not keyed by system.
type CommunityGoals struct {
	goals map[int64]domain.CommunityGoal
}

func NewCommunityGoals() CommunityGoals {
	return CommunityGoals{goals: map[int64]domain.CommunityGoal{}}
}

func (m CommunityGoals) Apply(evt journal.Event) (CommunityGoals, bool) {
	switch e := evt.(type) {
	case journal.CommunityGoal:
		if len(e.Goals) == 0 {
			return m, false
		}
		goals := cloneMap(m.goals)
		for _, p := range e.Goals {
			goal := goals[p.ID]
			goal.ID = p.ID
			goal.Title = p.Title
			goal.SystemName = p.SystemName
			goal.MarketName = p.MarketName
			goal.Expiry = p.Expiry
			goal.Complete = p.IsComplete
			goal.CurrentTotal = p.CurrentTotal
			goal.PlayerContribution = p.PlayerContribution
			goal.NumContributors = p.NumContributors
			goal.PercentileBand = p.PercentileBand
			goal.TierReached = p.TierReached
			goal.Bonus = p.Bonus
			goal.UpdatedAt = e.At()
			goals[p.ID] = goal
		}
		return CommunityGoals{goals: goals}, true
	case journal.CommunityGoalUpdate:
		if e.ID == 0 {
			return m, false
		}
		goal, known := m.goals[e.ID]
		switch e.Kind {
		case "CommunityGoalDiscard":
			if !known {
				return m, false
			}
			goals := cloneMap(m.goals)
			delete(goals, e.ID)
			return CommunityGoals{goals: goals}, true
		case "CommunityGoalReward":
			goal.Complete = true
			goal.Reward = e.Reward
		}
		goal.ID = e.ID
		if e.Name != "" {
			goal.Title = e.Name
		}
		if e.SystemName != "" {
			goal.SystemName = e.SystemName
		}
		goal.UpdatedAt = e.At()
		return CommunityGoals{goals: withEntry(m.goals, e.ID, goal)}, true
	}
	return m, false
}

// Goals lists tracked goals, soonest expiry first.
func (m CommunityGoals) Goals() []domain.CommunityGoal {
	out := make([]domain.CommunityGoal, 0, len(m.goals))
	for _, g := range m.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Expiry.Equal(out[j].Expiry) {
			return out[i].Expiry.Before(out[j].Expiry)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
