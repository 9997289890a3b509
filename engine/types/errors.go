package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the codespace all engine errors are registered under.
const ModuleName = "daoengine"

// Every precondition failure is a registered, typed condition naming the
// violated rule. A failed call leaves no partial state behind; the core
// facade rolls the surrounding transaction back.
var (
	ErrInsufficientStake    = errorsmod.Register(ModuleName, 2, "stake below proposal threshold")
	ErrEmptyTitle           = errorsmod.Register(ModuleName, 3, "title cannot be empty")
	ErrEmptyDescription     = errorsmod.Register(ModuleName, 4, "description cannot be empty")
	ErrUnauthorized         = errorsmod.Register(ModuleName, 5, "caller not authorized")
	ErrNotFound             = errorsmod.Register(ModuleName, 6, "record not found")
	ErrAlreadyVoted         = errorsmod.Register(ModuleName, 7, "voter already voted on proposal")
	ErrAlreadyExecuted      = errorsmod.Register(ModuleName, 8, "proposal already executed")
	ErrAlreadyCompleted     = errorsmod.Register(ModuleName, 9, "challenge already completed by developer")
	ErrAlreadyJoined        = errorsmod.Register(ModuleName, 10, "already participating in bounty")
	ErrVotingNotStarted     = errorsmod.Register(ModuleName, 11, "voting has not started")
	ErrVotingEnded          = errorsmod.Register(ModuleName, 12, "voting has ended")
	ErrVotingNotEnded       = errorsmod.Register(ModuleName, 13, "voting has not ended")
	ErrExecutionDelayNotMet = errorsmod.Register(ModuleName, 14, "execution delay not met")
	ErrProposalFailed       = errorsmod.Register(ModuleName, 15, "proposal did not pass")
	ErrInsufficientTreasury = errorsmod.Register(ModuleName, 16, "insufficient treasury balance")
	ErrTransferFailed       = errorsmod.Register(ModuleName, 17, "fund transfer failed")
	ErrInvalidAllocation    = errorsmod.Register(ModuleName, 18, "allocation components must sum to 10000 bps")
	ErrInvalidProof         = errorsmod.Register(ModuleName, 19, "proof rejected by verifier")
	ErrInvalidDifficulty    = errorsmod.Register(ModuleName, 20, "difficulty outside [1,10]")
	ErrInvalidMultiplier    = errorsmod.Register(ModuleName, 21, "reward multiplier outside (0,50000] bps")
	ErrInvalidDeadline      = errorsmod.Register(ModuleName, 22, "deadline must be in the future")
	ErrZeroReward           = errorsmod.Register(ModuleName, 23, "bounty requires attached reward")
	ErrBountyInactive       = errorsmod.Register(ModuleName, 24, "bounty is not active")
	ErrBountyFull           = errorsmod.Register(ModuleName, 25, "bounty participant cap reached")
	ErrChallengeInactive    = errorsmod.Register(ModuleName, 26, "challenge is not active")
	ErrNotVerified          = errorsmod.Register(ModuleName, 27, "developer is not verified")
	ErrOperationsPaused     = errorsmod.Register(ModuleName, 28, "operations are paused")
	ErrNotPaused            = errorsmod.Register(ModuleName, 29, "operations are not paused")
	ErrReentrantCall        = errorsmod.Register(ModuleName, 30, "reentrant call rejected")
	ErrInvalidPayload       = errorsmod.Register(ModuleName, 31, "malformed execution payload")
	ErrInvalidAmount        = errorsmod.Register(ModuleName, 32, "amount must be positive")
)
