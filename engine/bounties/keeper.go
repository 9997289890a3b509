// Package bounties implements sponsor-funded, deadline-bound work programs
// with participant caps. Rewards are escrowed on the bounty record at
// creation, outside the general treasury.
package bounties

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

// Keeper owns bounty programs.
type Keeper struct {
	distributor types.RewardDistributor
	registry    *registry.Keeper
	logger      zerolog.Logger
}

// NewKeeper creates the bounty keeper.
func NewKeeper(distributor types.RewardDistributor, registryKeeper *registry.Keeper, logger zerolog.Logger) *Keeper {
	return &Keeper{
		distributor: distributor,
		registry:    registryKeeper,
		logger:      logger,
	}
}

// CreateArgs are the parameters of a new bounty. Reward is the attached
// payment escrowed at creation.
type CreateArgs struct {
	Title           string
	Description     string
	Category        types.BountyCategory
	Reward          math.Int
	Sponsor         string
	Deadline        int64
	Skills          []string
	MaxParticipants uint32
}

// Create escrows the attached reward into a new bounty record.
func (k *Keeper) Create(tx *gorm.DB, args CreateArgs, now int64) (*store.Bounty, error) {
	if args.Title == "" {
		return nil, errorsmod.Wrap(types.ErrEmptyTitle, "bounty title required")
	}
	if args.Reward.IsNil() || !args.Reward.IsPositive() {
		return nil, errorsmod.Wrap(types.ErrZeroReward, "bounty must be funded at creation")
	}
	if args.Deadline <= now {
		return nil, errorsmod.Wrapf(types.ErrInvalidDeadline, "deadline %d not after %d", args.Deadline, now)
	}
	if !args.Category.Valid() {
		return nil, errorsmod.Wrapf(types.ErrInvalidPayload, "unknown bounty category %d", args.Category)
	}

	bounty := store.Bounty{
		Title:           args.Title,
		Description:     args.Description,
		Category:        args.Category,
		Reward:          store.FormatAmount(args.Reward),
		Sponsor:         args.Sponsor,
		Active:          true,
		Deadline:        args.Deadline,
		RequiredSkills:  store.EncodeStrings(args.Skills),
		MaxParticipants: args.MaxParticipants,
	}
	if err := tx.Create(&bounty).Error; err != nil {
		return nil, err
	}

	k.logger.Info().
		Uint("bounty_id", bounty.ID).
		Str("sponsor", args.Sponsor).
		Str("reward", args.Reward.String()).
		Str("category", args.Category.String()).
		Msg("bounty created")
	return &bounty, nil
}

// Get loads a bounty by id.
func (k *Keeper) Get(tx *gorm.DB, id uint) (*store.Bounty, error) {
	var bounty store.Bounty
	if err := tx.First(&bounty, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorsmod.Wrapf(types.ErrNotFound, "bounty %d", id)
		}
		return nil, err
	}
	return &bounty, nil
}

// Join registers a verified developer as a participant before the deadline,
// subject to the participant cap.
func (k *Keeper) Join(tx *gorm.DB, developer string, bountyID uint, now int64) error {
	if _, err := k.registry.RequireVerified(tx, developer); err != nil {
		return err
	}

	bounty, err := k.Get(tx, bountyID)
	if err != nil {
		return err
	}
	if !bounty.Active || bounty.Completed {
		return errorsmod.Wrapf(types.ErrBountyInactive, "bounty %d", bountyID)
	}
	if now >= bounty.Deadline {
		return errorsmod.Wrapf(types.ErrInvalidDeadline, "bounty %d deadline passed", bountyID)
	}

	participants := store.DecodeStrings(bounty.Participants)
	for _, p := range participants {
		if p == developer {
			return errorsmod.Wrapf(types.ErrAlreadyJoined, "bounty %d", bountyID)
		}
	}
	if bounty.MaxParticipants > 0 && uint32(len(participants)) >= bounty.MaxParticipants {
		return errorsmod.Wrapf(types.ErrBountyFull, "cap %d reached", bounty.MaxParticipants)
	}

	bounty.Participants = store.EncodeStrings(append(participants, developer))
	if err := tx.Save(bounty).Error; err != nil {
		return err
	}

	k.logger.Info().
		Uint("bounty_id", bountyID).
		Str("developer", developer).
		Msg("bounty joined")
	return nil
}

// Close settles a bounty: records the winner, flips active→completed, and
// pays the escrowed reward out. The completed flag guards double payout;
// only the sponsor or the administrator may close.
func (k *Keeper) Close(tx *gorm.DB, caller, admin string, bountyID uint, winner string) error {
	bounty, err := k.Get(tx, bountyID)
	if err != nil {
		return err
	}
	if caller != bounty.Sponsor && (caller != admin || admin == "") {
		return errorsmod.Wrapf(types.ErrUnauthorized, "caller %s is neither sponsor nor admin", caller)
	}
	if !bounty.Active || bounty.Completed {
		return errorsmod.Wrapf(types.ErrBountyInactive, "bounty %d already settled", bountyID)
	}

	// When participation was tracked, the winner must be on the list.
	participants := store.DecodeStrings(bounty.Participants)
	if len(participants) > 0 {
		found := false
		for _, p := range participants {
			if p == winner {
				found = true
				break
			}
		}
		if !found {
			return errorsmod.Wrapf(types.ErrUnauthorized, "winner %s is not a participant", winner)
		}
	}

	bounty.Active = false
	bounty.Completed = true
	bounty.Winner = winner
	if err := tx.Save(bounty).Error; err != nil {
		return err
	}

	if err := k.distributor.Transfer(winner, store.ParseAmount(bounty.Reward)); err != nil {
		return errorsmod.Wrap(types.ErrTransferFailed, err.Error())
	}

	k.logger.Info().
		Uint("bounty_id", bountyID).
		Str("winner", winner).
		Str("reward", bounty.Reward).
		Msg("bounty closed")
	return nil
}
