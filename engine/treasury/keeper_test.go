package treasury

import (
	"errors"
	"testing"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/db"
	"github.com/devdao-labs/devdao-node/engine/external"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

func defaultAllocation() types.Allocation {
	return types.Allocation{
		RewardPoolBps:          4000,
		DevelopmentFundBps:     2500,
		AIInfrastructureBps:    1500,
		CommunityIncentivesBps: 1000,
		ReserveBps:             1000,
	}
}

func setupKeeper(t *testing.T) (*Keeper, *gorm.DB, *external.RecordingDistributor) {
	t.Helper()

	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	distributor := external.NewRecordingDistributor()
	keeper := NewKeeper(distributor, zerolog.Nop())
	require.NoError(t, keeper.Init(database.Client(), defaultAllocation()))

	return keeper, database.Client(), distributor
}

func TestKeeper_Init(t *testing.T) {
	t.Run("rejects allocation not summing to 10000", func(t *testing.T) {
		database, err := db.OpenInMemory()
		require.NoError(t, err)
		defer database.Close()

		keeper := NewKeeper(external.NewRecordingDistributor(), zerolog.Nop())
		bad := defaultAllocation()
		bad.ReserveBps = 999
		err = keeper.Init(database.Client(), bad)
		require.ErrorIs(t, err, types.ErrInvalidAllocation)
	})

	t.Run("is idempotent", func(t *testing.T) {
		keeper, tx, _ := setupKeeper(t)
		require.NoError(t, keeper.Init(tx, defaultAllocation()))

		var count int64
		require.NoError(t, tx.Model(&store.TreasuryState{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestKeeper_FundAndWithdraw(t *testing.T) {
	keeper, tx, distributor := setupKeeper(t)

	require.NoError(t, keeper.Fund(tx, "dev:funder", math.NewInt(1_000_000)))

	balance, _, withdrawn, err := keeper.Info(tx)
	require.NoError(t, err)
	assert.Equal(t, "1000000", balance.String())
	assert.True(t, withdrawn.IsZero())

	require.NoError(t, keeper.Withdraw(tx, "dev:alice", math.NewInt(300_000), "grant"))

	balance, _, withdrawn, err = keeper.Info(tx)
	require.NoError(t, err)
	assert.Equal(t, "700000", balance.String())
	assert.Equal(t, "300000", withdrawn.String())
	assert.Equal(t, "300000", distributor.TotalPaid("dev:alice").String())

	// Conservation: funded == balance + withdrawn.
	assert.Equal(t, "1000000", balance.Add(withdrawn).String())
}

func TestKeeper_Fund_RejectsNonPositive(t *testing.T) {
	keeper, tx, _ := setupKeeper(t)

	err := keeper.Fund(tx, "dev:funder", math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	err = keeper.Fund(tx, "dev:funder", math.NewInt(-5))
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestKeeper_Withdraw_InsufficientBalance(t *testing.T) {
	keeper, tx, distributor := setupKeeper(t)

	require.NoError(t, keeper.Fund(tx, "dev:funder", math.NewInt(100)))

	err := keeper.Withdraw(tx, "dev:alice", math.NewInt(101), "grant")
	require.ErrorIs(t, err, types.ErrInsufficientTreasury)
	assert.Empty(t, distributor.Transfers())

	balance, _, _, err := keeper.Info(tx)
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())
}

func TestKeeper_Withdraw_TransferFailure(t *testing.T) {
	keeper, tx, distributor := setupKeeper(t)

	require.NoError(t, keeper.Fund(tx, "dev:funder", math.NewInt(1000)))
	distributor.FailNext(errors.New("settlement offline"))

	err := keeper.Withdraw(tx, "dev:alice", math.NewInt(500), "grant")
	require.ErrorIs(t, err, types.ErrTransferFailed)
}

func TestKeeper_SetAllocation(t *testing.T) {
	keeper, tx, _ := setupKeeper(t)

	t.Run("valid split replaces atomically", func(t *testing.T) {
		next := types.Allocation{
			RewardPoolBps:          5000,
			DevelopmentFundBps:     2000,
			AIInfrastructureBps:    1000,
			CommunityIncentivesBps: 1000,
			ReserveBps:             1000,
		}
		require.NoError(t, keeper.SetAllocation(tx, next))

		_, alloc, _, err := keeper.Info(tx)
		require.NoError(t, err)
		assert.Equal(t, next, alloc)
	})

	t.Run("invalid split leaves prior untouched", func(t *testing.T) {
		bad := types.Allocation{RewardPoolBps: 10001}
		err := keeper.SetAllocation(tx, bad)
		require.ErrorIs(t, err, types.ErrInvalidAllocation)

		_, alloc, _, err := keeper.Info(tx)
		require.NoError(t, err)
		assert.Equal(t, uint32(5000), alloc.RewardPoolBps)
		assert.EqualValues(t, types.BpsDenominator, alloc.Sum())
	})
}

func TestKeeper_EmergencyWithdraw(t *testing.T) {
	keeper, tx, distributor := setupKeeper(t)

	require.NoError(t, keeper.Fund(tx, "dev:funder", math.NewInt(900)))
	require.NoError(t, keeper.EmergencyWithdraw(tx, "dev:admin", math.NewInt(900)))

	balance, _, _, err := keeper.Info(tx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	assert.Equal(t, "900", distributor.TotalPaid("dev:admin").String())

	var record store.TreasuryTransfer
	require.NoError(t, tx.Where("direction = ?", "emergency").First(&record).Error)
	assert.Equal(t, "900", record.Amount)
}
