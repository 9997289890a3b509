// Package store contains the GORM-backed SQLite models persisted by the
// DevDAO engine.
//
// Database structure (database file: devdao.db):
//
//	devdao.db
//	├── proposals / votes
//	├── developer_profiles / repositories
//	├── challenges / challenge_completions
//	├── bounties
//	├── treasury_states / treasury_transfers
//	├── governance_params / engine_states
//	└── engine_events
package store

import (
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/types"
)

// Proposal is a governance proposal. Lifecycle status is never stored: it is
// derived from StartTime/EndTime/Executed/Passed against the current clock.
type Proposal struct {
	gorm.Model
	Proposer     string             `gorm:"index;not null"`
	Type         types.ProposalType `gorm:"not null"`
	Title        string             `gorm:"not null"`
	Description  string             `gorm:"type:text"`
	Payload      []byte             // opaque execution payload, JSON
	StartTime    int64              `gorm:"index"` // voting opens (unix)
	EndTime      int64              `gorm:"index"` // voting closes (unix)
	ForVotes     string             `gorm:"default:'0'"`
	AgainstVotes string             `gorm:"default:'0'"`
	TotalVotes   string             `gorm:"default:'0'"`
	Evaluated    bool               // quorum/pass decided (first execution attempt)
	Passed       bool
	Executed     bool
	ExecutedAt   int64
	Active       bool   `gorm:"index"` // member of the active-proposal set
	Metadata     []byte // free-form tags, JSON
}

// Status derives the lifecycle phase from the stored time window.
func (p *Proposal) Status(now int64) types.ProposalStatus {
	switch {
	case p.Executed:
		return types.ProposalStatusExecuted
	case p.Evaluated && !p.Passed:
		return types.ProposalStatusFailed
	case now < p.StartTime:
		return types.ProposalStatusPending
	case now <= p.EndTime:
		return types.ProposalStatusVoting
	default:
		return types.ProposalStatusClosed
	}
}

// Vote records a single (proposal, voter) ballot. The weight is snapshotted
// at cast time and never recalculated.
type Vote struct {
	gorm.Model
	ProposalID uint   `gorm:"uniqueIndex:idx_proposal_voter;not null"`
	Voter      string `gorm:"uniqueIndex:idx_proposal_voter;not null"`
	Support    bool
	Weight     string `gorm:"not null"`
	Reason     string `gorm:"type:text"`
	CastAt     int64
}

// TreasuryState is the singleton treasury ledger row: pooled balance, the
// five-way allocation, and the cumulative withdrawal counter.
type TreasuryState struct {
	gorm.Model
	Balance                string `gorm:"default:'0'"`
	RewardPoolBps          uint32
	DevelopmentFundBps     uint32
	AIInfrastructureBps    uint32
	CommunityIncentivesBps uint32
	ReserveBps             uint32
	TotalWithdrawn         string `gorm:"default:'0'"`
}

// Allocation returns the stored split as a domain value.
func (t *TreasuryState) Allocation() types.Allocation {
	return types.Allocation{
		RewardPoolBps:          t.RewardPoolBps,
		DevelopmentFundBps:     t.DevelopmentFundBps,
		AIInfrastructureBps:    t.AIInfrastructureBps,
		CommunityIncentivesBps: t.CommunityIncentivesBps,
		ReserveBps:             t.ReserveBps,
	}
}

// SetAllocation overwrites the stored split.
func (t *TreasuryState) SetAllocation(a types.Allocation) {
	t.RewardPoolBps = a.RewardPoolBps
	t.DevelopmentFundBps = a.DevelopmentFundBps
	t.AIInfrastructureBps = a.AIInfrastructureBps
	t.CommunityIncentivesBps = a.CommunityIncentivesBps
	t.ReserveBps = a.ReserveBps
}

// TreasuryTransfer is the funding/withdrawal record every funds movement
// appends.
type TreasuryTransfer struct {
	gorm.Model
	Direction    string `gorm:"index"` // "fund", "withdraw", "emergency"
	Amount       string `gorm:"not null"`
	Counterparty string
	Purpose      string
}

// DeveloperProfile is a verified identity. Created by a verification action,
// never deleted; re-verification overwrites and resets the mutable fields.
type DeveloperProfile struct {
	gorm.Model
	Address             string `gorm:"uniqueIndex;not null"`
	GithubUsername      string `gorm:"uniqueIndex;not null"` // case-sensitive
	Score               uint64
	Streak              uint32
	LastActivity        int64
	CompletedChallenges []byte // JSON list of challenge ids
	SkillRatings        []byte // JSON map skill -> rating
	Verified            bool
	Karma               uint32
}

// Repository is an approved external repository. Removal is a soft delete so
// historical weight data survives.
type Repository struct {
	gorm.Model
	URL               string `gorm:"uniqueIndex;not null"`
	Owner             string
	Active            bool
	Weight            uint32
	AllowedCategories []byte // JSON list
	RegisteredAt      int64
}

// Challenge is a fixed-parameter AI coding challenge.
type Challenge struct {
	gorm.Model
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	Difficulty     uint8
	MultiplierBps  uint32
	Active         bool
	Completions    uint64 // total completion counter
	RequiredSkills []byte // JSON list
	TimeLimitSecs  int64
}

// ChallengeCompletion marks that a developer completed a challenge. The
// composite unique index enforces at-most-once completion.
type ChallengeCompletion struct {
	gorm.Model
	ChallengeID uint   `gorm:"uniqueIndex:idx_challenge_dev;not null"`
	Developer   string `gorm:"uniqueIndex:idx_challenge_dev;not null"`
	RewardPaid  string
	CompletedAt int64
}

// Bounty is a sponsor-funded, deadline-bound work program. The reward is
// escrowed on the record at creation, outside the general treasury.
type Bounty struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Description     string `gorm:"type:text"`
	Category        types.BountyCategory
	Reward          string `gorm:"not null"`
	Sponsor         string `gorm:"index"`
	Active          bool
	Deadline        int64
	RequiredSkills  []byte // JSON list
	MaxParticipants uint32
	Participants    []byte // JSON list of addresses
	Completed       bool
	Winner          string
}

// GovernanceParams is the singleton governance parameter row.
type GovernanceParams struct {
	gorm.Model
	VotingDelaySecs    int64
	VotingPeriodSecs   int64
	ExecutionDelaySecs int64
	ProposalThreshold  string `gorm:"default:'0'"`
	QuorumBps          uint32
	PassBps            uint32
	Admin              string
}

// Params returns the row as a domain value.
func (g *GovernanceParams) Params() types.GovernanceParams {
	return types.GovernanceParams{
		VotingDelaySecs:    g.VotingDelaySecs,
		VotingPeriodSecs:   g.VotingPeriodSecs,
		ExecutionDelaySecs: g.ExecutionDelaySecs,
		ProposalThreshold:  ParseAmount(g.ProposalThreshold),
		QuorumBps:          g.QuorumBps,
		PassBps:            g.PassBps,
	}
}

// SetParams overwrites the tunable fields, leaving the admin untouched.
func (g *GovernanceParams) SetParams(p types.GovernanceParams) {
	g.VotingDelaySecs = p.VotingDelaySecs
	g.VotingPeriodSecs = p.VotingPeriodSecs
	g.ExecutionDelaySecs = p.ExecutionDelaySecs
	g.ProposalThreshold = FormatAmount(p.ProposalThreshold)
	g.QuorumBps = p.QuorumBps
	g.PassBps = p.PassBps
}

// EngineState is the singleton lifecycle row.
type EngineState struct {
	gorm.Model
	Paused bool
}

// EngineEvent is the structured event log appended by every state-mutating
// operation, for external indexing.
type EngineEvent struct {
	gorm.Model
	Kind       string `gorm:"index;not null"`
	Actor      string `gorm:"index"`
	Subject    string
	Attributes []byte // JSON
}

// Models lists every struct auto-migrated into the database.
func Models() []any {
	return []any{
		&Proposal{},
		&Vote{},
		&TreasuryState{},
		&TreasuryTransfer{},
		&DeveloperProfile{},
		&Repository{},
		&Challenge{},
		&ChallengeCompletion{},
		&Bounty{},
		&GovernanceParams{},
		&EngineState{},
		&EngineEvent{},
	}
}
