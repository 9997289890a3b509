package core

import (
	"strconv"

	"cosmossdk.io/math"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/challenges"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// CreateChallenge spawns a coding challenge. Administrator only; governance
// creates challenges through the proposal pipeline instead.
func (e *Engine) CreateChallenge(caller string, args challenges.CreateArgs) (uint, error) {
	var id uint
	err := e.write(false, func(tx *gorm.DB) error {
		if err := e.requireAdmin(tx, caller); err != nil {
			return err
		}
		challenge, err := e.Challenges.Create(tx, args)
		if err != nil {
			return err
		}
		id = challenge.ID
		return e.recordEvent(tx, types.EventChallengeCreated, caller, strconv.FormatUint(uint64(id), 10), map[string]any{
			"difficulty":     args.Difficulty,
			"multiplier_bps": args.MultiplierBps,
		})
	})
	return id, err
}

// CompleteChallenge pays the caller for completing a challenge and returns
// the computed reward.
func (e *Engine) CompleteChallenge(caller string, challengeID uint, proofData, signature []byte) (math.Int, error) {
	var reward math.Int
	err := e.write(false, func(tx *gorm.DB) error {
		paid, err := e.Challenges.Complete(tx, caller, challengeID, proofData, signature, e.clock.Now())
		if err != nil {
			return err
		}
		reward = paid
		return e.recordEvent(tx, types.EventChallengeComplete, caller, strconv.FormatUint(uint64(challengeID), 10), map[string]any{
			"reward": paid.String(),
		})
	})
	if err == nil {
		e.metrics.ChallengesCompleted.Inc()
		e.refreshTreasuryGauge()
	}
	return reward, err
}

// DeactivateChallenge turns a challenge off. Administrator only.
func (e *Engine) DeactivateChallenge(caller string, challengeID uint) error {
	return e.write(false, func(tx *gorm.DB) error {
		if err := e.requireAdmin(tx, caller); err != nil {
			return err
		}
		return e.Challenges.Deactivate(tx, challengeID)
	})
}

// GetChallenge returns one challenge. Pure read.
func (e *Engine) GetChallenge(challengeID uint) (*store.Challenge, error) {
	var challenge *store.Challenge
	err := e.read(func(tx *gorm.DB) error {
		c, err := e.Challenges.Get(tx, challengeID)
		if err != nil {
			return err
		}
		challenge = c
		return nil
	})
	return challenge, err
}
