// Package challenges implements the AI coding challenge engine: challenge
// creation, per-developer completion tracking, and the decaying-scarcity
// reward payout.
package challenges

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/registry"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/treasury"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// Keeper owns challenges and their completion records.
type Keeper struct {
	verifier    types.CompletionVerifier
	distributor types.RewardDistributor
	treasury    *treasury.Keeper
	registry    *registry.Keeper
	logger      zerolog.Logger
}

// NewKeeper creates the challenge keeper.
func NewKeeper(
	verifier types.CompletionVerifier,
	distributor types.RewardDistributor,
	treasuryKeeper *treasury.Keeper,
	registryKeeper *registry.Keeper,
	logger zerolog.Logger,
) *Keeper {
	return &Keeper{
		verifier:    verifier,
		distributor: distributor,
		treasury:    treasuryKeeper,
		registry:    registryKeeper,
		logger:      logger,
	}
}

// CreateArgs are the fixed parameters of a new challenge.
type CreateArgs struct {
	Title         string
	Description   string
	Difficulty    uint8
	MultiplierBps uint32
	Skills        []string
	TimeLimitSecs int64
}

// Create allocates the next challenge id. The caller gate (admin or
// governance dispatch) is enforced by the core facade and the governance
// handler respectively.
func (k *Keeper) Create(tx *gorm.DB, args CreateArgs) (*store.Challenge, error) {
	if args.Title == "" {
		return nil, errorsmod.Wrap(types.ErrEmptyTitle, "challenge title required")
	}
	if args.Difficulty < types.MinDifficulty || args.Difficulty > types.MaxDifficulty {
		return nil, errorsmod.Wrapf(types.ErrInvalidDifficulty, "got %d", args.Difficulty)
	}
	if args.MultiplierBps == 0 || args.MultiplierBps > types.MaxRewardMultiplierBps {
		return nil, errorsmod.Wrapf(types.ErrInvalidMultiplier, "got %d", args.MultiplierBps)
	}

	challenge := store.Challenge{
		Title:          args.Title,
		Description:    args.Description,
		Difficulty:     args.Difficulty,
		MultiplierBps:  args.MultiplierBps,
		Active:         true,
		RequiredSkills: store.EncodeStrings(args.Skills),
		TimeLimitSecs:  args.TimeLimitSecs,
	}
	if err := tx.Create(&challenge).Error; err != nil {
		return nil, err
	}

	k.logger.Info().
		Uint("challenge_id", challenge.ID).
		Uint8("difficulty", args.Difficulty).
		Uint32("multiplier_bps", args.MultiplierBps).
		Msg("challenge created")
	return &challenge, nil
}

// Get loads a challenge by id.
func (k *Keeper) Get(tx *gorm.DB, id uint) (*store.Challenge, error) {
	var challenge store.Challenge
	if err := tx.First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorsmod.Wrapf(types.ErrNotFound, "challenge %d", id)
		}
		return nil, err
	}
	return &challenge, nil
}

// Complete pays a verified developer for a challenge completion: validates
// the AI signature, computes the decaying reward, debits the treasury,
// records the completion and updates the profile, then transfers the payout.
// The transfer is the last step; all bookkeeping precedes it.
func (k *Keeper) Complete(tx *gorm.DB, developer string, challengeID uint, proofData, signature []byte, now int64) (math.Int, error) {
	profile, err := k.registry.RequireVerified(tx, developer)
	if err != nil {
		return math.Int{}, err
	}

	challenge, err := k.Get(tx, challengeID)
	if err != nil {
		return math.Int{}, err
	}
	if !challenge.Active {
		return math.Int{}, errorsmod.Wrapf(types.ErrChallengeInactive, "challenge %d", challengeID)
	}

	var existing store.ChallengeCompletion
	err = tx.Where("challenge_id = ? AND developer = ?", challengeID, developer).First(&existing).Error
	if err == nil {
		return math.Int{}, errorsmod.Wrapf(types.ErrAlreadyCompleted, "challenge %d by %s", challengeID, developer)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return math.Int{}, err
	}

	if !k.verifier.VerifyCompletion(developer, uint64(challengeID), proofData, signature) {
		return math.Int{}, errorsmod.Wrapf(types.ErrInvalidProof, "completion signature rejected for challenge %d", challengeID)
	}

	reward := Reward(challenge.Difficulty, challenge.Completions, challenge.MultiplierBps)

	if err := k.treasury.Debit(tx, reward, "challenge reward", developer, "withdraw"); err != nil {
		return math.Int{}, err
	}

	challenge.Completions++
	if err := tx.Save(challenge).Error; err != nil {
		return math.Int{}, err
	}

	completion := store.ChallengeCompletion{
		ChallengeID: challengeID,
		Developer:   developer,
		RewardPaid:  store.FormatAmount(reward),
		CompletedAt: now,
	}
	if err := tx.Create(&completion).Error; err != nil {
		return math.Int{}, err
	}

	if err := k.registry.RecordCompletion(tx, profile, challengeID, challenge.Difficulty, now); err != nil {
		return math.Int{}, err
	}

	if err := k.distributor.Transfer(developer, reward); err != nil {
		return math.Int{}, errorsmod.Wrap(types.ErrTransferFailed, err.Error())
	}

	k.logger.Info().
		Uint("challenge_id", challengeID).
		Str("developer", developer).
		Str("reward", reward.String()).
		Uint64("completions", challenge.Completions).
		Msg("challenge completed")
	return reward, nil
}

// Deactivate turns a challenge off; further completion attempts fail with
// ChallengeInactive.
func (k *Keeper) Deactivate(tx *gorm.DB, id uint) error {
	challenge, err := k.Get(tx, id)
	if err != nil {
		return err
	}
	challenge.Active = false
	return tx.Save(challenge).Error
}
