package core

import (
	"cosmossdk.io/math"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/types"
)

// Fund credits the treasury with an inbound payment.
func (e *Engine) Fund(from string, amount math.Int) error {
	err := e.write(false, func(tx *gorm.DB) error {
		if err := e.Treasury.Fund(tx, from, amount); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventTreasuryFunded, from, "", map[string]any{
			"amount": amount.String(),
		})
	})
	if err == nil {
		e.refreshTreasuryGauge()
	}
	return err
}

// ReceiveFunds is the default value-receiving entry point: unsolicited
// inbound transfers are booked as treasury funding.
func (e *Engine) ReceiveFunds(from string, amount math.Int) error {
	return e.Fund(from, amount)
}

// Withdraw moves treasury funds to a recipient. Administrator only.
func (e *Engine) Withdraw(caller, recipient string, amount math.Int, purpose string) error {
	err := e.write(false, func(tx *gorm.DB) error {
		if err := e.requireAdmin(tx, caller); err != nil {
			return err
		}
		if err := e.Treasury.Withdraw(tx, recipient, amount, purpose); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventTreasuryWithdrawn, caller, recipient, map[string]any{
			"amount":  amount.String(),
			"purpose": purpose,
		})
	})
	if err == nil {
		e.refreshTreasuryGauge()
	}
	return err
}

// TreasuryInfo is the pure treasury read: balance, allocation, cumulative
// withdrawn, plus the external yield source's distributable balance.
type TreasuryInfo struct {
	Balance        math.Int
	Allocation     types.Allocation
	TotalWithdrawn math.Int
	YieldBalance   math.Int
}

// GetTreasuryInfo reads the treasury state without side effects.
func (e *Engine) GetTreasuryInfo() (*TreasuryInfo, error) {
	var info *TreasuryInfo
	err := e.read(func(tx *gorm.DB) error {
		balance, alloc, withdrawn, err := e.Treasury.Info(tx)
		if err != nil {
			return err
		}
		info = &TreasuryInfo{
			Balance:        balance,
			Allocation:     alloc,
			TotalWithdrawn: withdrawn,
			YieldBalance:   e.yield.RewardBalance(),
		}
		return nil
	})
	return info, err
}

// refreshTreasuryGauge pushes the current balance into the prometheus gauge.
func (e *Engine) refreshTreasuryGauge() {
	info, err := e.GetTreasuryInfo()
	if err != nil {
		return
	}
	f, err := info.Balance.ToLegacyDec().Float64()
	if err != nil {
		return
	}
	e.metrics.TreasuryBalance.Set(f)
}
