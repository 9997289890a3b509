package types

import (
	"cosmossdk.io/math"
)

// StakingLedger is the external stake bookkeeping the engine reads voting
// power from. Stake and unstake mutations happen outside this engine.
type StakingLedger interface {
	// StakedOf returns the total amount the account currently has staked.
	StakedOf(address string) math.Int

	// TotalStaked returns the protocol-wide staked amount.
	TotalStaked() math.Int
}

// RewardDistributor moves native funds out of the engine: challenge payouts,
// treasury withdrawals and bounty settlements all go through it.
type RewardDistributor interface {
	Transfer(to string, amount math.Int) error
}

// YieldSource is the yield-bearing integration the DAO pools staked funds
// into. The engine only reads its distributable balance for reporting; yield
// accrual itself is external.
type YieldSource interface {
	RewardBalance() math.Int
}

// ContributionVerifier validates the opaque GitHub-contribution proof
// presented during developer verification.
type ContributionVerifier interface {
	VerifyContribution(address, username string, proof []byte) bool
}

// CompletionVerifier validates the AI-generated completion signature for a
// (developer, challenge, proof) triple.
type CompletionVerifier interface {
	VerifyCompletion(address string, challengeID uint64, proofData, signature []byte) bool
}

// Clock supplies the monotonically increasing unix time every time-window
// check is evaluated against. The engine never reads wall time directly.
type Clock interface {
	Now() int64
}
