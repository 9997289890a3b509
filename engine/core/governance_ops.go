package core

import (
	"strconv"

	"cosmossdk.io/math"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// CreateProposal schedules a proposal for the caller. Returns the new
// proposal id.
func (e *Engine) CreateProposal(caller string, ptype types.ProposalType, title, description string, payload, metadata []byte) (uint, error) {
	var id uint
	err := e.write(false, func(tx *gorm.DB) error {
		proposal, err := e.Governance.CreateProposal(tx, caller, ptype, title, description, payload, metadata)
		if err != nil {
			return err
		}
		id = proposal.ID
		return e.recordEvent(tx, types.EventProposalCreated, caller, strconv.FormatUint(uint64(id), 10), map[string]any{
			"type":       ptype.String(),
			"title":      title,
			"start_time": proposal.StartTime,
			"end_time":   proposal.EndTime,
		})
	})
	if err == nil {
		e.metrics.ProposalsCreated.Inc()
	}
	return id, err
}

// CastVote records the caller's ballot on a proposal.
func (e *Engine) CastVote(caller string, proposalID uint, support bool, reason string) error {
	err := e.write(false, func(tx *gorm.DB) error {
		vote, err := e.Governance.CastVote(tx, caller, proposalID, support, reason)
		if err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventVoteCast, caller, strconv.FormatUint(uint64(proposalID), 10), map[string]any{
			"support": support,
			"weight":  vote.Weight,
		})
	})
	if err == nil {
		e.metrics.VotesCast.Inc()
	}
	return err
}

// ExecuteProposal drives a closed proposal to its terminal state.
func (e *Engine) ExecuteProposal(caller string, proposalID uint) error {
	err := e.write(false, func(tx *gorm.DB) error {
		if err := e.Governance.ExecuteProposal(tx, proposalID); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventProposalExecuted, caller, strconv.FormatUint(uint64(proposalID), 10), nil)
	})
	if err == nil {
		e.metrics.ProposalsExecuted.Inc()
	}
	return err
}

// UpdateParameters replaces the governance parameters. Administrator only.
func (e *Engine) UpdateParameters(caller string, params types.GovernanceParams) error {
	return e.write(false, func(tx *gorm.DB) error {
		if err := e.Governance.UpdateParams(tx, caller, params); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventParametersUpdated, caller, "", map[string]any{
			"quorum_bps": params.QuorumBps,
			"pass_bps":   params.PassBps,
		})
	})
}

// ProposalView is a proposal together with its clock-derived status.
type ProposalView struct {
	Proposal store.Proposal
	Status   types.ProposalStatus
}

// GetProposal returns one proposal with its derived status.
func (e *Engine) GetProposal(proposalID uint) (*ProposalView, error) {
	var view *ProposalView
	err := e.read(func(tx *gorm.DB) error {
		proposal, err := e.Governance.GetProposal(tx, proposalID)
		if err != nil {
			return err
		}
		view = &ProposalView{Proposal: *proposal, Status: proposal.Status(e.clock.Now())}
		return nil
	})
	return view, err
}

// GetActiveProposals lists the active-proposal set with derived statuses.
func (e *Engine) GetActiveProposals() ([]ProposalView, error) {
	return e.proposalViews(e.Governance.ActiveProposals)
}

// GetProposals lists every proposal, terminal ones included, with derived
// statuses.
func (e *Engine) GetProposals() ([]ProposalView, error) {
	return e.proposalViews(e.Governance.Proposals)
}

func (e *Engine) proposalViews(list func(tx *gorm.DB) ([]store.Proposal, error)) ([]ProposalView, error) {
	var views []ProposalView
	err := e.read(func(tx *gorm.DB) error {
		proposals, err := list(tx)
		if err != nil {
			return err
		}
		now := e.clock.Now()
		views = make([]ProposalView, 0, len(proposals))
		for _, p := range proposals {
			views = append(views, ProposalView{Proposal: p, Status: p.Status(now)})
		}
		return nil
	})
	return views, err
}

// GetVotingWeight returns the caller's current voting weight.
func (e *Engine) GetVotingWeight(address string) (math.Int, error) {
	weight := math.ZeroInt()
	err := e.read(func(tx *gorm.DB) error {
		weight = e.Governance.VotingWeight(tx, address)
		return nil
	})
	return weight, err
}
