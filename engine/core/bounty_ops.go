package core

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/bounties"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// CreateBounty escrows the caller's attached reward into a new bounty.
func (e *Engine) CreateBounty(caller string, args bounties.CreateArgs) (uint, error) {
	args.Sponsor = caller
	var id uint
	err := e.write(false, func(tx *gorm.DB) error {
		bounty, err := e.Bounties.Create(tx, args, e.clock.Now())
		if err != nil {
			return err
		}
		id = bounty.ID
		return e.recordEvent(tx, types.EventBountyCreated, caller, strconv.FormatUint(uint64(id), 10), map[string]any{
			"reward":   args.Reward.String(),
			"category": args.Category.String(),
			"deadline": args.Deadline,
		})
	})
	if err == nil {
		e.metrics.BountiesCreated.Inc()
	}
	return id, err
}

// JoinBounty registers the caller as a bounty participant.
func (e *Engine) JoinBounty(caller string, bountyID uint) error {
	return e.write(false, func(tx *gorm.DB) error {
		if err := e.Bounties.Join(tx, caller, bountyID, e.clock.Now()); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventBountyJoined, caller, strconv.FormatUint(uint64(bountyID), 10), nil)
	})
}

// CloseBounty settles a bounty on a winner and pays the escrow out. Sponsor
// or administrator only.
func (e *Engine) CloseBounty(caller string, bountyID uint, winner string) error {
	return e.write(false, func(tx *gorm.DB) error {
		admin, err := e.admin(tx)
		if err != nil {
			return err
		}
		if err := e.Bounties.Close(tx, caller, admin, bountyID, winner); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventBountyClosed, caller, strconv.FormatUint(uint64(bountyID), 10), map[string]any{
			"winner": winner,
		})
	})
}

// GetBounty returns one bounty. Pure read.
func (e *Engine) GetBounty(bountyID uint) (*store.Bounty, error) {
	var bounty *store.Bounty
	err := e.read(func(tx *gorm.DB) error {
		b, err := e.Bounties.Get(tx, bountyID)
		if err != nil {
			return err
		}
		bounty = b
		return nil
	})
	return bounty, err
}
