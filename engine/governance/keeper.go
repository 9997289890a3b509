// Package governance implements the proposal lifecycle state machine:
// creation, stake-weighted voting, quorum/pass evaluation, and dispatch of
// typed execution actions.
package governance

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/registry"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// ExecHandler executes one proposal type once the proposal has passed. The
// core facade registers one handler per supported type at wiring time.
type ExecHandler func(tx *gorm.DB, proposal *store.Proposal) error

// Keeper owns proposals, votes and governance parameters.
type Keeper struct {
	staking  types.StakingLedger
	registry *registry.Keeper
	clock    types.Clock
	logger   zerolog.Logger
	handlers map[types.ProposalType]ExecHandler
}

// NewKeeper creates the governance keeper. Handlers are registered
// separately so the keeper does not depend on every sibling component at
// construction.
func NewKeeper(staking types.StakingLedger, registryKeeper *registry.Keeper, clock types.Clock, logger zerolog.Logger) *Keeper {
	return &Keeper{
		staking:  staking,
		registry: registryKeeper,
		clock:    clock,
		logger:   logger,
		handlers: make(map[types.ProposalType]ExecHandler),
	}
}

// RegisterHandler binds the execution action for one proposal type. Types
// without a handler execute as a documented no-op.
func (k *Keeper) RegisterHandler(t types.ProposalType, h ExecHandler) {
	k.handlers[t] = h
}

// InitParams seeds the singleton parameter row on a fresh database.
func (k *Keeper) InitParams(tx *gorm.DB, params types.GovernanceParams, admin string) error {
	var count int64
	if err := tx.Model(&store.GovernanceParams{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	row := store.GovernanceParams{Admin: admin}
	row.SetParams(params)
	return tx.Create(&row).Error
}

// ParamsRow loads the singleton parameter row.
func (k *Keeper) ParamsRow(tx *gorm.DB) (*store.GovernanceParams, error) {
	var row store.GovernanceParams
	if err := tx.First(&row).Error; err != nil {
		return nil, errorsmod.Wrap(types.ErrNotFound, "governance params missing")
	}
	return &row, nil
}

// Admin returns the privileged administrator address.
func (k *Keeper) Admin(tx *gorm.DB) (string, error) {
	row, err := k.ParamsRow(tx)
	if err != nil {
		return "", err
	}
	return row.Admin, nil
}

// UpdateParams replaces the tunable parameters. Administrator only. The
// observed protocol performs no range validation here (nothing stops a pass
// threshold above 10,000 bps); that behavior is preserved.
func (k *Keeper) UpdateParams(tx *gorm.DB, caller string, params types.GovernanceParams) error {
	row, err := k.ParamsRow(tx)
	if err != nil {
		return err
	}
	if caller != row.Admin || row.Admin == "" {
		return errorsmod.Wrapf(types.ErrUnauthorized, "caller %s is not the administrator", caller)
	}

	row.SetParams(params)
	if err := tx.Save(row).Error; err != nil {
		return err
	}

	k.logger.Info().
		Int64("voting_delay_secs", params.VotingDelaySecs).
		Int64("voting_period_secs", params.VotingPeriodSecs).
		Int64("execution_delay_secs", params.ExecutionDelaySecs).
		Uint32("quorum_bps", params.QuorumBps).
		Uint32("pass_bps", params.PassBps).
		Msg("governance parameters updated")
	return nil
}

// CreateProposal schedules a new proposal. The proposer must hold at least
// the proposal threshold in stake.
func (k *Keeper) CreateProposal(tx *gorm.DB, proposer string, ptype types.ProposalType, title, description string, payload, metadata []byte) (*store.Proposal, error) {
	if title == "" {
		return nil, types.ErrEmptyTitle
	}
	if description == "" {
		return nil, types.ErrEmptyDescription
	}

	row, err := k.ParamsRow(tx)
	if err != nil {
		return nil, err
	}
	params := row.Params()

	staked := k.staking.StakedOf(proposer)
	if staked.IsNil() || !staked.IsPositive() || staked.LT(params.ProposalThreshold) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientStake,
			"staked %s, threshold %s", staked, params.ProposalThreshold)
	}

	now := k.clock.Now()
	proposal := store.Proposal{
		Proposer:     proposer,
		Type:         ptype,
		Title:        title,
		Description:  description,
		Payload:      payload,
		StartTime:    now + params.VotingDelaySecs,
		EndTime:      now + params.VotingDelaySecs + params.VotingPeriodSecs,
		ForVotes:     "0",
		AgainstVotes: "0",
		TotalVotes:   "0",
		Active:       true,
		Metadata:     metadata,
	}
	if err := tx.Create(&proposal).Error; err != nil {
		return nil, err
	}

	k.logger.Info().
		Uint("proposal_id", proposal.ID).
		Str("type", ptype.String()).
		Str("proposer", proposer).
		Int64("start_time", proposal.StartTime).
		Int64("end_time", proposal.EndTime).
		Msg("proposal created")
	return &proposal, nil
}

// GetProposal loads a proposal by id.
func (k *Keeper) GetProposal(tx *gorm.DB, id uint) (*store.Proposal, error) {
	var proposal store.Proposal
	if err := tx.First(&proposal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorsmod.Wrapf(types.ErrNotFound, "proposal %d", id)
		}
		return nil, err
	}
	return &proposal, nil
}

// ActiveProposals lists the active-proposal set. Executed and failed
// proposals are dropped from it on their terminal transition.
func (k *Keeper) ActiveProposals(tx *gorm.DB) ([]store.Proposal, error) {
	var proposals []store.Proposal
	if err := tx.Where("active = ?", true).Order("id").Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// Proposals lists every proposal, terminal ones included.
func (k *Keeper) Proposals(tx *gorm.DB) ([]store.Proposal, error) {
	var proposals []store.Proposal
	if err := tx.Order("id").Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// VotingWeight computes an account's current voting weight: one point per
// whole staked token, plus a reputation bonus that tops out at 50% of the
// base when karma reaches the ceiling.
func (k *Keeper) VotingWeight(tx *gorm.DB, voter string) math.Int {
	staked := k.staking.StakedOf(voter)
	if staked.IsNil() || !staked.IsPositive() {
		return math.ZeroInt()
	}
	base := staked.Quo(types.VotingUnit())

	reputation := k.registry.Reputation(tx, voter)
	if reputation > types.KarmaCeiling {
		reputation = types.KarmaCeiling
	}
	bonus := base.MulRaw(int64(reputation)).QuoRaw(2 * types.KarmaCeiling)

	return base.Add(bonus)
}

// CastVote records one ballot inside the proposal's voting window. The
// weight is snapshotted at cast time and never recalculated.
func (k *Keeper) CastVote(tx *gorm.DB, voter string, proposalID uint, support bool, reason string) (*store.Vote, error) {
	proposal, err := k.GetProposal(tx, proposalID)
	if err != nil {
		return nil, err
	}

	now := k.clock.Now()
	if now < proposal.StartTime {
		return nil, errorsmod.Wrapf(types.ErrVotingNotStarted, "opens at %d", proposal.StartTime)
	}
	if now > proposal.EndTime {
		return nil, errorsmod.Wrapf(types.ErrVotingEnded, "closed at %d", proposal.EndTime)
	}

	var existing store.Vote
	err = tx.Where("proposal_id = ? AND voter = ?", proposalID, voter).First(&existing).Error
	if err == nil {
		return nil, errorsmod.Wrapf(types.ErrAlreadyVoted, "proposal %d", proposalID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	weight := k.VotingWeight(tx, voter)
	if !weight.IsPositive() {
		return nil, errorsmod.Wrapf(types.ErrInsufficientStake, "voter %s has no voting weight", voter)
	}

	vote := store.Vote{
		ProposalID: proposalID,
		Voter:      voter,
		Support:    support,
		Weight:     store.FormatAmount(weight),
		Reason:     reason,
		CastAt:     now,
	}
	if err := tx.Create(&vote).Error; err != nil {
		return nil, err
	}

	if support {
		proposal.ForVotes = store.FormatAmount(store.ParseAmount(proposal.ForVotes).Add(weight))
	} else {
		proposal.AgainstVotes = store.FormatAmount(store.ParseAmount(proposal.AgainstVotes).Add(weight))
	}
	proposal.TotalVotes = store.FormatAmount(store.ParseAmount(proposal.TotalVotes).Add(weight))
	if err := tx.Save(proposal).Error; err != nil {
		return nil, err
	}

	k.logger.Info().
		Uint("proposal_id", proposalID).
		Str("voter", voter).
		Bool("support", support).
		Str("weight", weight.String()).
		Msg("vote cast")
	return &vote, nil
}
