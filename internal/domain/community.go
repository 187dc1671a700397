package domain

import "time"

// CommunityGoal is the commander's view of one joined community goal.
type CommunityGoal struct {
	ID                 int64
	Title              string
	SystemName         string
	MarketName         string
	Expiry             time.Time
	Complete           bool
	CurrentTotal       int64
	PlayerContribution int64
	NumContributors    int64
	PercentileBand     int
	TierReached        string
	Bonus              int64
	Reward             int64
	UpdatedAt          time.Time
}
