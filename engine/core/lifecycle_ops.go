package core

import (
	"cosmossdk.io/math"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// Pause halts every mutating operation except the administrator emergency
// paths. Administrator only.
func (e *Engine) Pause(caller string) error {
	return e.write(true, func(tx *gorm.DB) error {
		if err := e.requireAdmin(tx, caller); err != nil {
			return err
		}
		var state store.EngineState
		if err := tx.First(&state).Error; err != nil {
			return err
		}
		if state.Paused {
			return nil
		}
		state.Paused = true
		if err := tx.Save(&state).Error; err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventPaused, caller, "", nil)
	})
}

// Unpause resumes normal operation. Administrator only.
func (e *Engine) Unpause(caller string) error {
	return e.write(true, func(tx *gorm.DB) error {
		if err := e.requireAdmin(tx, caller); err != nil {
			return err
		}
		var state store.EngineState
		if err := tx.First(&state).Error; err != nil {
			return err
		}
		if !state.Paused {
			return nil
		}
		state.Paused = false
		if err := tx.Save(&state).Error; err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventUnpaused, caller, "", nil)
	})
}

// Paused reports the lifecycle state.
func (e *Engine) Paused() (bool, error) {
	var paused bool
	err := e.read(func(tx *gorm.DB) error {
		p, err := e.paused(tx)
		if err != nil {
			return err
		}
		paused = p
		return nil
	})
	return paused, err
}

// EmergencyWithdraw drains treasury funds while operations are paused.
// Administrator only; fails with NotPaused during normal operation.
func (e *Engine) EmergencyWithdraw(caller, recipient string, amount math.Int) error {
	err := e.write(true, func(tx *gorm.DB) error {
		if err := e.requireAdmin(tx, caller); err != nil {
			return err
		}
		paused, err := e.paused(tx)
		if err != nil {
			return err
		}
		if !paused {
			return types.ErrNotPaused
		}
		if err := e.Treasury.EmergencyWithdraw(tx, recipient, amount); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventEmergencyWithdraw, caller, recipient, map[string]any{
			"amount": amount.String(),
		})
	})
	if err == nil {
		e.refreshTreasuryGauge()
	}
	return err
}
