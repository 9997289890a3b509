package governance

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/db"
	"github.com/devdao-labs/devdao-node/engine/external"
	"github.com/devdao-labs/devdao-node/engine/registry"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

const testAdmin = "dev:admin"

// oneToken is 10^18 base units.
func tokens(n int64) math.Int {
	return math.NewInt(n).Mul(types.VotingUnit())
}

func testParams() types.GovernanceParams {
	return types.GovernanceParams{
		VotingDelaySecs:    100,
		VotingPeriodSecs:   1000,
		ExecutionDelaySecs: 500,
		ProposalThreshold:  tokens(1),
		QuorumBps:          5000,
		PassBps:            5100,
	}
}

type fixture struct {
	keeper   *Keeper
	tx       *gorm.DB
	clock    *external.ManualClock
	ledger   *external.StaticLedger
	registry *registry.Keeper
}

func setup(t *testing.T) *fixture {
	t.Helper()

	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	tx := database.Client()

	clock := external.NewManualClock(1_000_000)
	ledger := external.NewStaticLedger(map[string]string{
		"dev:alice": tokens(60).String(),
		"dev:bob":   tokens(40).String(),
	})
	registryKeeper := registry.NewKeeper(external.AcceptAllVerifier{}, zerolog.Nop())

	keeper := NewKeeper(ledger, registryKeeper, clock, zerolog.Nop())
	require.NoError(t, keeper.InitParams(tx, testParams(), testAdmin))

	return &fixture{
		keeper:   keeper,
		tx:       tx,
		clock:    clock,
		ledger:   ledger,
		registry: registryKeeper,
	}
}

func (f *fixture) propose(t *testing.T, proposer string) *store.Proposal {
	t.Helper()
	proposal, err := f.keeper.CreateProposal(f.tx, proposer, types.ProposalTypeRewardAlgorithm, "adjust emissions", "rationale attached", nil, nil)
	require.NoError(t, err)
	return proposal
}

// openVoting advances the clock past the proposal's voting delay.
func (f *fixture) openVoting(p *store.Proposal) { f.clock.Set(p.StartTime) }

// closeVoting advances the clock past the voting window.
func (f *fixture) closeVoting(p *store.Proposal) { f.clock.Set(p.EndTime + 1) }

// reachExecution advances past the execution delay.
func (f *fixture) reachExecution(p *store.Proposal) {
	f.clock.Set(p.EndTime + testParams().ExecutionDelaySecs)
}

func TestCreateProposal(t *testing.T) {
	t.Run("schedules the voting window", func(t *testing.T) {
		f := setup(t)
		now := f.clock.Now()

		proposal := f.propose(t, "dev:alice")
		assert.EqualValues(t, 1, proposal.ID)
		assert.Equal(t, now+100, proposal.StartTime)
		assert.Equal(t, now+1100, proposal.EndTime)
		assert.True(t, proposal.Active)
		assert.Equal(t, types.ProposalStatusPending, proposal.Status(now))
	})

	t.Run("empty title and description", func(t *testing.T) {
		f := setup(t)

		_, err := f.keeper.CreateProposal(f.tx, "dev:alice", types.ProposalTypeRewardAlgorithm, "", "d", nil, nil)
		require.ErrorIs(t, err, types.ErrEmptyTitle)

		_, err = f.keeper.CreateProposal(f.tx, "dev:alice", types.ProposalTypeRewardAlgorithm, "t", "", nil, nil)
		require.ErrorIs(t, err, types.ErrEmptyDescription)
	})

	t.Run("proposer below threshold", func(t *testing.T) {
		f := setup(t)
		f.ledger.SetStake("dev:poor", tokens(1).SubRaw(1))

		_, err := f.keeper.CreateProposal(f.tx, "dev:poor", types.ProposalTypeRewardAlgorithm, "t", "d", nil, nil)
		require.ErrorIs(t, err, types.ErrInsufficientStake)
	})

	t.Run("unstaked proposer", func(t *testing.T) {
		f := setup(t)
		_, err := f.keeper.CreateProposal(f.tx, "dev:ghost", types.ProposalTypeRewardAlgorithm, "t", "d", nil, nil)
		require.ErrorIs(t, err, types.ErrInsufficientStake)
	})
}

func TestVotingWeight(t *testing.T) {
	f := setup(t)

	t.Run("base weight is whole staked tokens", func(t *testing.T) {
		assert.Equal(t, "60", f.keeper.VotingWeight(f.tx, "dev:alice").String())
	})

	t.Run("fractional stake floors", func(t *testing.T) {
		f.ledger.SetStake("dev:frac", tokens(3).Add(math.NewIntWithDecimal(9, 17)))
		assert.Equal(t, "3", f.keeper.VotingWeight(f.tx, "dev:frac").String())
	})

	t.Run("no stake means no weight", func(t *testing.T) {
		assert.True(t, f.keeper.VotingWeight(f.tx, "dev:ghost").IsZero())
	})

	t.Run("verification karma adds a bonus", func(t *testing.T) {
		require.NoError(t, f.registry.VerifyDeveloper(f.tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000))
		// bonus = 60 × 100 / 2000 = 3
		assert.Equal(t, "63", f.keeper.VotingWeight(f.tx, "dev:alice").String())
	})

	t.Run("karma is clamped at the ceiling", func(t *testing.T) {
		require.NoError(t, f.tx.Model(&store.DeveloperProfile{}).
			Where("address = ?", "dev:alice").
			Update("karma", 5000).Error)
		// bonus caps at 50% of base: 60 × 1000 / 2000 = 30
		assert.Equal(t, "90", f.keeper.VotingWeight(f.tx, "dev:alice").String())
	})
}

func TestCastVote(t *testing.T) {
	t.Run("before the window opens", func(t *testing.T) {
		f := setup(t)
		proposal := f.propose(t, "dev:alice")

		_, err := f.keeper.CastVote(f.tx, "dev:alice", proposal.ID, true, "")
		require.ErrorIs(t, err, types.ErrVotingNotStarted)
	})

	t.Run("after the window closes", func(t *testing.T) {
		f := setup(t)
		proposal := f.propose(t, "dev:alice")
		f.closeVoting(proposal)

		_, err := f.keeper.CastVote(f.tx, "dev:alice", proposal.ID, true, "")
		require.ErrorIs(t, err, types.ErrVotingEnded)
	})

	t.Run("tallies accumulate by support", func(t *testing.T) {
		f := setup(t)
		proposal := f.propose(t, "dev:alice")
		f.openVoting(proposal)

		vote, err := f.keeper.CastVote(f.tx, "dev:alice", proposal.ID, true, "ship it")
		require.NoError(t, err)
		assert.Equal(t, "60", vote.Weight)

		_, err = f.keeper.CastVote(f.tx, "dev:bob", proposal.ID, false, "")
		require.NoError(t, err)

		updated, err := f.keeper.GetProposal(f.tx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, "60", updated.ForVotes)
		assert.Equal(t, "40", updated.AgainstVotes)
		assert.Equal(t, "100", updated.TotalVotes)
	})

	t.Run("one ballot per voter", func(t *testing.T) {
		f := setup(t)
		proposal := f.propose(t, "dev:alice")
		f.openVoting(proposal)

		_, err := f.keeper.CastVote(f.tx, "dev:alice", proposal.ID, true, "")
		require.NoError(t, err)

		_, err = f.keeper.CastVote(f.tx, "dev:alice", proposal.ID, false, "changed my mind")
		require.ErrorIs(t, err, types.ErrAlreadyVoted)
	})

	t.Run("weightless voter is rejected", func(t *testing.T) {
		f := setup(t)
		proposal := f.propose(t, "dev:alice")
		f.openVoting(proposal)

		_, err := f.keeper.CastVote(f.tx, "dev:ghost", proposal.ID, true, "")
		require.ErrorIs(t, err, types.ErrInsufficientStake)
	})

	t.Run("weight is snapshotted at cast time", func(t *testing.T) {
		f := setup(t)
		proposal := f.propose(t, "dev:alice")
		f.openVoting(proposal)

		_, err := f.keeper.CastVote(f.tx, "dev:alice", proposal.ID, true, "")
		require.NoError(t, err)

		// A later stake change must not alter the recorded tally.
		f.ledger.SetStake("dev:alice", tokens(1))

		updated, err := f.keeper.GetProposal(f.tx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, "60", updated.ForVotes)
	})
}

func TestUpdateParams(t *testing.T) {
	f := setup(t)

	t.Run("admin only", func(t *testing.T) {
		err := f.keeper.UpdateParams(f.tx, "dev:stranger", testParams())
		require.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("replaces the tunables", func(t *testing.T) {
		next := testParams()
		next.QuorumBps = 3000
		next.ProposalThreshold = tokens(5)
		require.NoError(t, f.keeper.UpdateParams(f.tx, testAdmin, next))

		row, err := f.keeper.ParamsRow(f.tx)
		require.NoError(t, err)
		assert.EqualValues(t, 3000, row.QuorumBps)
		assert.Equal(t, tokens(5).String(), row.ProposalThreshold)
		assert.Equal(t, testAdmin, row.Admin)
	})
}
