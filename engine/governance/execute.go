package governance

import (
	errorsmod "cosmossdk.io/errors"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// ExecuteProposal drives a proposal through its terminal transition.
//
// Pass/fail is evaluated exactly once, on the first execution attempt after
// voting ends, against the total stake at that moment:
//
//	quorum  = floor(totalStaked / votingUnit) × quorumBps / 10000
//	eligible iff totalVotes ≥ quorum
//	passed   iff votesFor ≥ totalVotes × passBps / 10000
//
// A proposal that fails evaluation becomes terminally Failed: the recorded
// verdict survives the ProposalFailed error returned to the caller (the core
// facade commits on that specific error). Execution of a passed proposal
// additionally waits out the execution delay, then dispatches the
// type-specific handler; types without a handler execute as a no-op that
// still marks the proposal executed.
func (k *Keeper) ExecuteProposal(tx *gorm.DB, proposalID uint) error {
	proposal, err := k.GetProposal(tx, proposalID)
	if err != nil {
		return err
	}
	if proposal.Executed {
		return errorsmod.Wrapf(types.ErrAlreadyExecuted, "proposal %d", proposalID)
	}

	now := k.clock.Now()
	if now <= proposal.EndTime {
		return errorsmod.Wrapf(types.ErrVotingNotEnded, "voting closes at %d", proposal.EndTime)
	}

	row, err := k.ParamsRow(tx)
	if err != nil {
		return err
	}
	params := row.Params()

	if !proposal.Evaluated {
		proposal.Evaluated = true
		proposal.Passed = k.evaluate(proposal, params)
		if !proposal.Passed {
			proposal.Active = false
			if err := tx.Save(proposal).Error; err != nil {
				return err
			}
			k.logger.Info().
				Uint("proposal_id", proposalID).
				Str("total_votes", proposal.TotalVotes).
				Str("for_votes", proposal.ForVotes).
				Msg("proposal failed evaluation")
			return errorsmod.Wrapf(types.ErrProposalFailed, "proposal %d", proposalID)
		}
		if err := tx.Save(proposal).Error; err != nil {
			return err
		}
	} else if !proposal.Passed {
		return errorsmod.Wrapf(types.ErrProposalFailed, "proposal %d", proposalID)
	}

	if now < proposal.EndTime+params.ExecutionDelaySecs {
		return errorsmod.Wrapf(types.ErrExecutionDelayNotMet,
			"executable at %d", proposal.EndTime+params.ExecutionDelaySecs)
	}

	if handler, ok := k.handlers[proposal.Type]; ok {
		if err := handler(tx, proposal); err != nil {
			return err
		}
	} else {
		// Documented fallback: unsupported types execute as a no-op that
		// still marks the proposal executed.
		k.logger.Warn().
			Uint("proposal_id", proposalID).
			Str("type", proposal.Type.String()).
			Msg("no execution handler registered, executing as no-op")
	}

	proposal.Executed = true
	proposal.ExecutedAt = now
	proposal.Active = false
	if err := tx.Save(proposal).Error; err != nil {
		return err
	}

	k.logger.Info().
		Uint("proposal_id", proposalID).
		Str("type", proposal.Type.String()).
		Msg("proposal executed")
	return nil
}

// evaluate applies the quorum and pass thresholds to the frozen tallies.
func (k *Keeper) evaluate(proposal *store.Proposal, params types.GovernanceParams) bool {
	totalVotes := store.ParseAmount(proposal.TotalVotes)
	forVotes := store.ParseAmount(proposal.ForVotes)

	totalStaked := k.staking.TotalStaked()
	requiredQuorum := totalStaked.
		Quo(types.VotingUnit()).
		MulRaw(int64(params.QuorumBps)).
		QuoRaw(types.BpsDenominator)

	if totalVotes.LT(requiredQuorum) {
		return false
	}

	requiredFor := totalVotes.
		MulRaw(int64(params.PassBps)).
		QuoRaw(types.BpsDenominator)
	return forVotes.GTE(requiredFor)
}
