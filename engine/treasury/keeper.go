// Package treasury implements the pooled treasury ledger: a single balance,
// a five-way basis-point allocation that always sums to 10,000, and the
// cumulative withdrawal counter.
package treasury

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// Keeper owns the treasury state. All methods run inside the transaction
// handle supplied by the core facade, so a failed precondition rolls the
// whole external call back.
type Keeper struct {
	distributor types.RewardDistributor
	logger      zerolog.Logger
}

// NewKeeper creates the treasury keeper.
func NewKeeper(distributor types.RewardDistributor, logger zerolog.Logger) *Keeper {
	return &Keeper{
		distributor: distributor,
		logger:      logger,
	}
}

// Init seeds the singleton state row if the database is fresh. The genesis
// allocation must satisfy the sum invariant.
func (k *Keeper) Init(tx *gorm.DB, genesis types.Allocation) error {
	if genesis.Sum() != types.BpsDenominator {
		return errorsmod.Wrapf(types.ErrInvalidAllocation, "genesis allocation sums to %d", genesis.Sum())
	}

	var count int64
	if err := tx.Model(&store.TreasuryState{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	state := store.TreasuryState{Balance: "0", TotalWithdrawn: "0"}
	state.SetAllocation(genesis)
	return tx.Create(&state).Error
}

// State loads the singleton treasury row.
func (k *Keeper) State(tx *gorm.DB) (*store.TreasuryState, error) {
	var state store.TreasuryState
	if err := tx.First(&state).Error; err != nil {
		return nil, errorsmod.Wrap(types.ErrNotFound, "treasury state missing")
	}
	return &state, nil
}

// Fund credits the pooled balance and appends a funding record.
func (k *Keeper) Fund(tx *gorm.DB, from string, amount math.Int) error {
	if !amount.IsPositive() {
		return errorsmod.Wrap(types.ErrInvalidAmount, "funding amount must be positive")
	}

	state, err := k.State(tx)
	if err != nil {
		return err
	}
	state.Balance = store.FormatAmount(store.ParseAmount(state.Balance).Add(amount))
	if err := tx.Save(state).Error; err != nil {
		return err
	}

	record := store.TreasuryTransfer{
		Direction:    "fund",
		Amount:       store.FormatAmount(amount),
		Counterparty: from,
	}
	if err := tx.Create(&record).Error; err != nil {
		return err
	}

	k.logger.Info().
		Str("from", from).
		Str("amount", amount.String()).
		Msg("treasury funded")
	return nil
}

// Withdraw debits the balance, bumps the cumulative withdrawn counter and
// transfers the funds out. State is mutated fully before the transfer runs.
func (k *Keeper) Withdraw(tx *gorm.DB, recipient string, amount math.Int, purpose string) error {
	return k.withdraw(tx, recipient, amount, purpose, "withdraw")
}

// EmergencyWithdraw is the paused-mode escape hatch; it follows the same
// accounting path but is recorded distinctly.
func (k *Keeper) EmergencyWithdraw(tx *gorm.DB, recipient string, amount math.Int) error {
	return k.withdraw(tx, recipient, amount, "emergency", "emergency")
}

func (k *Keeper) withdraw(tx *gorm.DB, recipient string, amount math.Int, purpose, direction string) error {
	if !amount.IsPositive() {
		return errorsmod.Wrap(types.ErrInvalidAmount, "withdrawal amount must be positive")
	}

	if err := k.Debit(tx, amount, purpose, recipient, direction); err != nil {
		return err
	}

	if err := k.distributor.Transfer(recipient, amount); err != nil {
		return errorsmod.Wrap(types.ErrTransferFailed, err.Error())
	}

	k.logger.Info().
		Str("recipient", recipient).
		Str("amount", amount.String()).
		Str("purpose", purpose).
		Msg("treasury withdrawal")
	return nil
}

// Debit reduces the balance and records the movement without performing the
// external transfer; the challenge engine pays rewards through its own
// distributor call after debiting here.
func (k *Keeper) Debit(tx *gorm.DB, amount math.Int, purpose, counterparty, direction string) error {
	state, err := k.State(tx)
	if err != nil {
		return err
	}

	balance := store.ParseAmount(state.Balance)
	if balance.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientTreasury,
			"balance %s, requested %s", balance, amount)
	}

	state.Balance = store.FormatAmount(balance.Sub(amount))
	state.TotalWithdrawn = store.FormatAmount(store.ParseAmount(state.TotalWithdrawn).Add(amount))
	if err := tx.Save(state).Error; err != nil {
		return err
	}

	record := store.TreasuryTransfer{
		Direction:    direction,
		Amount:       store.FormatAmount(amount),
		Counterparty: counterparty,
		Purpose:      purpose,
	}
	return tx.Create(&record).Error
}

// SetAllocation atomically replaces the five-way split. The components must
// sum to exactly 10,000 bps; a violating call leaves the prior allocation
// untouched.
func (k *Keeper) SetAllocation(tx *gorm.DB, alloc types.Allocation) error {
	if alloc.Sum() != types.BpsDenominator {
		return errorsmod.Wrapf(types.ErrInvalidAllocation, "components sum to %d", alloc.Sum())
	}

	state, err := k.State(tx)
	if err != nil {
		return err
	}
	state.SetAllocation(alloc)
	if err := tx.Save(state).Error; err != nil {
		return err
	}

	k.logger.Info().
		Uint32("reward_pool_bps", alloc.RewardPoolBps).
		Uint32("development_fund_bps", alloc.DevelopmentFundBps).
		Uint32("ai_infrastructure_bps", alloc.AIInfrastructureBps).
		Uint32("community_incentives_bps", alloc.CommunityIncentivesBps).
		Uint32("reserve_bps", alloc.ReserveBps).
		Msg("treasury allocation updated")
	return nil
}

// Info is the pure read: balance, allocation and cumulative withdrawn.
func (k *Keeper) Info(tx *gorm.DB) (balance math.Int, alloc types.Allocation, withdrawn math.Int, err error) {
	state, err := k.State(tx)
	if err != nil {
		return math.Int{}, types.Allocation{}, math.Int{}, err
	}
	return store.ParseAmount(state.Balance), state.Allocation(), store.ParseAmount(state.TotalWithdrawn), nil
}
