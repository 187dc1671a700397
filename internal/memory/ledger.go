package memory

import (
	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
)

// Ledger sums the session's earnings.
type Ledger struct {
	totals domain.SessionLedger
}

func NewLedger() Ledger {
	return Ledger{}
}

func (m Ledger) Apply(evt journal.Event) (Ledger, bool) {
	next := m.totals
	switch e := evt.(type) {
	case journal.ExplorationSale:
		next.ExplorationSold += e.Earnings
	case journal.OrganicSale:
		next.OrganicSold += e.Earnings
	case journal.CodexEntry:
		if e.VoucherAmount <= 0 {
			return m, false
		}
		next.CodexVouchers += e.VoucherAmount
	case journal.Bounty:
		next.BountiesEarned += e.TotalReward
	case journal.FactionKillBond:
		next.BondsEarned += e.Reward
	case journal.CommunityGoalUpdate:
		if e.Kind != "CommunityGoalReward" || e.Reward <= 0 {
			return m, false
		}
		next.GoalRewards += e.Reward
	case journal.RedeemVoucher:
		next.Redeemed = withEntry(m.totals.Redeemed, e.Type, m.totals.Redeemed[e.Type]+e.Amount)
	default:
		return m, false
	}
	return Ledger{totals: next}, true
}

func (m Ledger) Totals() domain.SessionLedger {
	out := m.totals
	out.Redeemed = cloneMap(m.totals.Redeemed)
	return out
}
