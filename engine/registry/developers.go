package registry

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// VerifyDeveloper creates or overwrites the profile for identity after the
// contribution proof checks out. Callable by the admin or by an
// already-verified developer acting as attester.
//
// Re-verifying an existing identity resets score, streak and the
// completed-challenge list. That reset is protocol policy, not an accident:
// a fresh proof restarts the contribution record.
func (k *Keeper) VerifyDeveloper(tx *gorm.DB, caller, admin, identity, username string, proof []byte, now int64) error {
	authorized := caller == admin && admin != ""
	if !authorized {
		verified, err := k.isVerified(tx, caller)
		if err != nil {
			return err
		}
		authorized = verified
	}
	if !authorized {
		return errorsmod.Wrapf(types.ErrUnauthorized, "caller %s is neither admin nor a verified attester", caller)
	}

	return k.verify(tx, identity, username, proof, true, now)
}

// VerifyFromGovernance runs the same verification path without the caller
// gate or the proof check; the passed proposal is the authorization.
func (k *Keeper) VerifyFromGovernance(tx *gorm.DB, identity, username string, now int64) error {
	return k.verify(tx, identity, username, nil, false, now)
}

func (k *Keeper) isVerified(tx *gorm.DB, identity string) (bool, error) {
	var profile store.DeveloperProfile
	err := tx.Where("address = ?", identity).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.Verified, nil
}

func (k *Keeper) verify(tx *gorm.DB, identity, username string, proof []byte, checkProof bool, now int64) error {
	if identity == "" || username == "" {
		return errorsmod.Wrap(types.ErrInvalidPayload, "identity and username required")
	}
	// Direct calls always consult the verifier, nil proof included; only a
	// governance-approved verification skips it.
	if checkProof && !k.verifier.VerifyContribution(identity, username, proof) {
		return errorsmod.Wrapf(types.ErrInvalidProof, "contribution proof rejected for %s", username)
	}

	// The github username is a case-sensitive unique key across identities.
	var clash store.DeveloperProfile
	err := tx.Where("github_username = ? AND address <> ?", username, identity).First(&clash).Error
	if err == nil {
		return errorsmod.Wrapf(types.ErrUnauthorized, "username %s already registered to another identity", username)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var profile store.DeveloperProfile
	err = tx.Where("address = ?", identity).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = store.DeveloperProfile{Address: identity}
	case err != nil:
		return err
	}

	profile.GithubUsername = username
	profile.Verified = true
	profile.Karma = types.KarmaSeed
	profile.Score = 0
	profile.Streak = 0
	profile.CompletedChallenges = nil
	profile.LastActivity = now

	if err := tx.Save(&profile).Error; err != nil {
		return err
	}

	k.logger.Info().
		Str("identity", identity).
		Str("username", username).
		Msg("developer verified")
	return nil
}

// ProfileOf is the pure read; NotFound for unknown identities.
func (k *Keeper) ProfileOf(tx *gorm.DB, identity string) (*store.DeveloperProfile, error) {
	var profile store.DeveloperProfile
	if err := tx.Where("address = ?", identity).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorsmod.Wrapf(types.ErrNotFound, "no profile for %s", identity)
		}
		return nil, err
	}
	return &profile, nil
}

// RequireVerified loads a profile and fails unless it is verified.
func (k *Keeper) RequireVerified(tx *gorm.DB, identity string) (*store.DeveloperProfile, error) {
	profile, err := k.ProfileOf(tx, identity)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrNotVerified, "%s has no verified profile", identity)
	}
	if !profile.Verified {
		return nil, errorsmod.Wrapf(types.ErrNotVerified, "%s is not verified", identity)
	}
	return profile, nil
}

// RecordCompletion updates a profile after a challenge payout: appends the
// challenge id, accrues score, and maintains the contribution streak.
func (k *Keeper) RecordCompletion(tx *gorm.DB, profile *store.DeveloperProfile, challengeID uint, difficulty uint8, now int64) error {
	completed := store.DecodeIDs(profile.CompletedChallenges)
	completed = append(completed, challengeID)
	profile.CompletedChallenges = store.EncodeIDs(completed)

	profile.Score += uint64(difficulty) * 10

	// A completion within 48h of the last activity extends the streak;
	// anything later restarts it.
	const streakWindowSecs = 48 * 3600
	if profile.LastActivity > 0 && now-profile.LastActivity <= streakWindowSecs {
		profile.Streak++
	} else {
		profile.Streak = 1
	}
	profile.LastActivity = now

	return tx.Save(profile).Error
}

// Reputation returns the profile karma used for the voting-weight bonus,
// zero when the identity has no verified profile.
func (k *Keeper) Reputation(tx *gorm.DB, identity string) uint32 {
	profile, err := k.ProfileOf(tx, identity)
	if err != nil || !profile.Verified {
		return 0
	}
	return profile.Karma
}
