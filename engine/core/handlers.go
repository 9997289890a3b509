package core

import (
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/bounties"
	"github.com/devdao-labs/devdao-node/engine/challenges"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// registerHandlers binds one execution action per supported proposal type.
// Types left unbound (reward-algorithm update, protocol upgrade, emergency
// action, AI-model update) execute through the governance keeper's no-op
// fallback: their effects live off-engine, but the proposal record still
// transitions to Executed.
func (e *Engine) registerHandlers() {
	e.Governance.RegisterHandler(types.ProposalTypeTreasuryAllocation, e.execTreasuryAllocation)
	e.Governance.RegisterHandler(types.ProposalTypeParameterChange, e.execParameterChange)
	e.Governance.RegisterHandler(types.ProposalTypeChallengeCreation, e.execChallengeCreation)
	e.Governance.RegisterHandler(types.ProposalTypeRepoManagement, e.execRepoManagement)
	e.Governance.RegisterHandler(types.ProposalTypeBountyCreation, e.execBountyCreation)
	e.Governance.RegisterHandler(types.ProposalTypeDeveloperVerification, e.execDeveloperVerification)
}

func (e *Engine) execTreasuryAllocation(tx *gorm.DB, proposal *store.Proposal) error {
	var payload types.AllocationPayload
	if err := types.DecodePayload(proposal.Payload, &payload); err != nil {
		return err
	}
	if err := e.Treasury.SetAllocation(tx, payload.Allocation); err != nil {
		return err
	}
	return e.recordEvent(tx, types.EventAllocationChanged, proposal.Proposer, "", map[string]any{
		"proposal_id": proposal.ID,
	})
}

func (e *Engine) execParameterChange(tx *gorm.DB, proposal *store.Proposal) error {
	var payload types.ParamsPayload
	if err := types.DecodePayload(proposal.Payload, &payload); err != nil {
		return err
	}

	// Governance-approved changes bypass the admin gate; the passed vote is
	// the authorization. No range validation, matching UpdateParameters.
	row, err := e.Governance.ParamsRow(tx)
	if err != nil {
		return err
	}
	row.SetParams(payload.Params)
	return tx.Save(row).Error
}

func (e *Engine) execChallengeCreation(tx *gorm.DB, proposal *store.Proposal) error {
	var payload types.ChallengePayload
	if err := types.DecodePayload(proposal.Payload, &payload); err != nil {
		return err
	}
	challenge, err := e.Challenges.Create(tx, challenges.CreateArgs{
		Title:         payload.Title,
		Description:   payload.Description,
		Difficulty:    payload.Difficulty,
		MultiplierBps: payload.MultiplierBps,
		Skills:        payload.Skills,
		TimeLimitSecs: payload.TimeLimitSecs,
	})
	if err != nil {
		return err
	}
	return e.recordEvent(tx, types.EventChallengeCreated, proposal.Proposer, "", map[string]any{
		"proposal_id":  proposal.ID,
		"challenge_id": challenge.ID,
	})
}

func (e *Engine) execRepoManagement(tx *gorm.DB, proposal *store.Proposal) error {
	var payload types.RepoPayload
	if err := types.DecodePayload(proposal.Payload, &payload); err != nil {
		return err
	}
	if payload.Remove {
		return e.Registry.RemoveRepositoryFromGovernance(tx, payload.URL)
	}
	return e.Registry.AddRepositoryFromGovernance(tx, payload.URL, payload.Owner, payload.Weight, payload.Categories, e.clock.Now())
}

func (e *Engine) execBountyCreation(tx *gorm.DB, proposal *store.Proposal) error {
	var payload types.BountyPayload
	if err := types.DecodePayload(proposal.Payload, &payload); err != nil {
		return err
	}

	// A governance bounty is funded out of the treasury rather than by a
	// sponsor's attached payment.
	if err := e.Treasury.Debit(tx, payload.Reward, "governance bounty", proposal.Proposer, "withdraw"); err != nil {
		return err
	}
	_, err := e.Bounties.Create(tx, bounties.CreateArgs{
		Title:           payload.Title,
		Description:     payload.Description,
		Category:        payload.Category,
		Reward:          payload.Reward,
		Sponsor:         proposal.Proposer,
		Deadline:        payload.DeadlineUnix,
		Skills:          payload.Skills,
		MaxParticipants: payload.MaxParticipants,
	}, e.clock.Now())
	return err
}

func (e *Engine) execDeveloperVerification(tx *gorm.DB, proposal *store.Proposal) error {
	var payload types.VerifyPayload
	if err := types.DecodePayload(proposal.Payload, &payload); err != nil {
		return err
	}
	return e.Registry.VerifyFromGovernance(tx, payload.Address, payload.Username, e.clock.Now())
}
