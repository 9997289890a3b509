// Package types holds the domain types shared across the DevDAO engine:
// proposal and bounty enums, numeric protocol constants, the external
// handles the engine is constructed with, and the registered error set.
package types

import (
	"cosmossdk.io/math"
)

// Protocol-wide numeric constants. All percentages are expressed in basis
// points (10,000 bps = 100%), all native amounts in 10^18 base units.
const (
	// BpsDenominator is the basis-point scale used by every threshold and
	// allocation in the protocol.
	BpsDenominator = 10_000

	// MaxRewardMultiplierBps caps challenge reward multipliers at 500%.
	MaxRewardMultiplierBps = 50_000

	// KarmaSeed is the karma a developer profile starts with on verification.
	KarmaSeed = 100

	// KarmaCeiling is the karma at which the voting-weight reputation bonus
	// reaches its 50% maximum.
	KarmaCeiling = 1000

	// MinDifficulty and MaxDifficulty bound challenge difficulty.
	MinDifficulty = 1
	MaxDifficulty = 10
)

// VotingUnit converts staked base units into voting weight: one weight point
// per whole staked token.
func VotingUnit() math.Int { return math.NewIntWithDecimal(1, 18) }

// UnitReward is the base challenge reward per difficulty point
// (0.1 native token).
func UnitReward() math.Int { return math.NewIntWithDecimal(1, 17) }

// ProposalType tags a proposal with the action executed when it passes.
type ProposalType uint8

const (
	ProposalTypeParameterChange ProposalType = iota + 1
	ProposalTypeRewardAlgorithm
	ProposalTypeRepoManagement
	ProposalTypeChallengeCreation
	ProposalTypeTreasuryAllocation
	ProposalTypeProtocolUpgrade
	ProposalTypeEmergencyAction
	ProposalTypeBountyCreation
	ProposalTypeDeveloperVerification
	ProposalTypeModelUpdate
)

func (t ProposalType) String() string {
	switch t {
	case ProposalTypeParameterChange:
		return "parameter_change"
	case ProposalTypeRewardAlgorithm:
		return "reward_algorithm_update"
	case ProposalTypeRepoManagement:
		return "repo_management"
	case ProposalTypeChallengeCreation:
		return "challenge_creation"
	case ProposalTypeTreasuryAllocation:
		return "treasury_allocation"
	case ProposalTypeProtocolUpgrade:
		return "protocol_upgrade"
	case ProposalTypeEmergencyAction:
		return "emergency_action"
	case ProposalTypeBountyCreation:
		return "bounty_creation"
	case ProposalTypeDeveloperVerification:
		return "developer_verification"
	case ProposalTypeModelUpdate:
		return "model_update"
	default:
		return "unspecified"
	}
}

// ProposalStatus is derived from the proposal's stored timestamps and the
// current clock reading. It is never persisted: the time window is the truth.
type ProposalStatus uint8

const (
	ProposalStatusPending ProposalStatus = iota + 1
	ProposalStatusVoting
	ProposalStatusClosed
	ProposalStatusExecuted
	ProposalStatusFailed
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusPending:
		return "pending"
	case ProposalStatusVoting:
		return "voting"
	case ProposalStatusClosed:
		return "closed"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusFailed:
		return "failed"
	default:
		return "unspecified"
	}
}

// BountyCategory classifies sponsor-funded work programs.
type BountyCategory uint8

const (
	BountyCategoryIndividual BountyCategory = iota + 1
	BountyCategoryTeam
	BountyCategoryHackathon
	BountyCategoryReview
	BountyCategoryDocumentation
	BountyCategoryTesting
)

func (c BountyCategory) String() string {
	switch c {
	case BountyCategoryIndividual:
		return "individual"
	case BountyCategoryTeam:
		return "team"
	case BountyCategoryHackathon:
		return "hackathon"
	case BountyCategoryReview:
		return "review"
	case BountyCategoryDocumentation:
		return "documentation"
	case BountyCategoryTesting:
		return "testing"
	default:
		return "unspecified"
	}
}

// Valid reports whether the category is one of the enumerated values.
func (c BountyCategory) Valid() bool {
	return c >= BountyCategoryIndividual && c <= BountyCategoryTesting
}

// GovernanceParams are the tunable governance knobs. Amounts are base units,
// durations are seconds, thresholds basis points. UpdateParameters applies
// them without range validation beyond types, matching the observed protocol
// behavior.
type GovernanceParams struct {
	VotingDelaySecs    int64    `json:"voting_delay_secs"`
	VotingPeriodSecs   int64    `json:"voting_period_secs"`
	ExecutionDelaySecs int64    `json:"execution_delay_secs"`
	ProposalThreshold  math.Int `json:"proposal_threshold"`
	QuorumBps          uint32   `json:"quorum_bps"`
	PassBps            uint32   `json:"pass_bps"`
}

// Allocation is the five-way treasury split in basis points. The five values
// must always sum to exactly BpsDenominator.
type Allocation struct {
	RewardPoolBps          uint32 `json:"reward_pool_bps"`
	DevelopmentFundBps     uint32 `json:"development_fund_bps"`
	AIInfrastructureBps    uint32 `json:"ai_infrastructure_bps"`
	CommunityIncentivesBps uint32 `json:"community_incentives_bps"`
	ReserveBps             uint32 `json:"reserve_bps"`
}

// Sum returns the total of the five components.
func (a Allocation) Sum() uint64 {
	return uint64(a.RewardPoolBps) + uint64(a.DevelopmentFundBps) +
		uint64(a.AIInfrastructureBps) + uint64(a.CommunityIncentivesBps) +
		uint64(a.ReserveBps)
}
