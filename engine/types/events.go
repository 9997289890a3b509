package types

// Event kinds recorded for every state-mutating operation. External indexers
// read these off the engine_events table.
const (
	EventProposalCreated   = "proposal_created"
	EventVoteCast          = "vote_cast"
	EventProposalExecuted  = "proposal_executed"
	EventParametersUpdated = "parameters_updated"
	EventDeveloperVerified = "developer_verified"
	EventRepositoryAdded   = "repository_added"
	EventRepositoryRemoved = "repository_removed"
	EventChallengeCreated  = "challenge_created"
	EventChallengeComplete = "challenge_completed"
	EventBountyCreated     = "bounty_created"
	EventBountyJoined      = "bounty_joined"
	EventBountyClosed      = "bounty_closed"
	EventTreasuryFunded    = "treasury_funded"
	EventTreasuryWithdrawn = "treasury_withdrawn"
	EventAllocationChanged = "allocation_changed"
	EventPaused            = "paused"
	EventUnpaused          = "unpaused"
	EventEmergencyWithdraw = "emergency_withdrawal"
)
