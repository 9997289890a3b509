package registry

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/db"
	"github.com/devdao-labs/devdao-node/engine/external"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

const testAdmin = "dev:admin"

func setupKeeper(t *testing.T, verifier types.ContributionVerifier) (*Keeper, *gorm.DB) {
	t.Helper()

	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	return NewKeeper(verifier, zerolog.Nop()), database.Client()
}

func TestVerifyDeveloper(t *testing.T) {
	t.Run("admin can verify", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

		err := keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte(`{"pr":1}`), 1000)
		require.NoError(t, err)

		profile, err := keeper.ProfileOf(tx, "dev:alice")
		require.NoError(t, err)
		assert.True(t, profile.Verified)
		assert.Equal(t, "alice-gh", profile.GithubUsername)
		assert.EqualValues(t, types.KarmaSeed, profile.Karma)
	})

	t.Run("verified developer can attest for another", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

		require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000))
		require.NoError(t, keeper.VerifyDeveloper(tx, "dev:alice", testAdmin, "dev:bob", "bob-gh", []byte("p"), 1001))

		profile, err := keeper.ProfileOf(tx, "dev:bob")
		require.NoError(t, err)
		assert.True(t, profile.Verified)
	})

	t.Run("unknown caller is rejected", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

		err := keeper.VerifyDeveloper(tx, "dev:stranger", testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000)
		require.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("rejected proof fails", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.RejectAllVerifier{})

		err := keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("bad"), 1000)
		require.ErrorIs(t, err, types.ErrInvalidProof)

		_, err = keeper.ProfileOf(tx, "dev:alice")
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("nil proof still consults the verifier", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.RejectAllVerifier{})

		err := keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:mallory", "mallory-gh", nil, 1000)
		require.ErrorIs(t, err, types.ErrInvalidProof)

		_, err = keeper.ProfileOf(tx, "dev:mallory")
		require.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("governance approval bypasses the proof check", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.RejectAllVerifier{})

		require.NoError(t, keeper.VerifyFromGovernance(tx, "dev:alice", "alice-gh", 1000))

		profile, err := keeper.ProfileOf(tx, "dev:alice")
		require.NoError(t, err)
		assert.True(t, profile.Verified)
	})

	t.Run("username cannot span identities", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

		require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "shared-gh", []byte("p"), 1000))
		err := keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:bob", "shared-gh", []byte("p"), 1001)
		require.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("re-verification resets the contribution record", func(t *testing.T) {
		keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

		require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000))

		profile, err := keeper.ProfileOf(tx, "dev:alice")
		require.NoError(t, err)
		require.NoError(t, keeper.RecordCompletion(tx, profile, 7, 5, 2000))

		profile, err = keeper.ProfileOf(tx, "dev:alice")
		require.NoError(t, err)
		require.EqualValues(t, 50, profile.Score)
		require.Len(t, store.DecodeIDs(profile.CompletedChallenges), 1)

		require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-renamed", []byte("p"), 3000))

		profile, err = keeper.ProfileOf(tx, "dev:alice")
		require.NoError(t, err)
		assert.Equal(t, "alice-renamed", profile.GithubUsername)
		assert.Zero(t, profile.Score)
		assert.Zero(t, profile.Streak)
		assert.Empty(t, store.DecodeIDs(profile.CompletedChallenges))
	})
}

func TestRecordCompletion_Streak(t *testing.T) {
	keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})
	require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000))

	profile, err := keeper.ProfileOf(tx, "dev:alice")
	require.NoError(t, err)

	// First completion starts the streak.
	require.NoError(t, keeper.RecordCompletion(tx, profile, 1, 3, 2000))
	assert.EqualValues(t, 1, profile.Streak)

	// Within the 48h window it extends.
	require.NoError(t, keeper.RecordCompletion(tx, profile, 2, 3, 2000+47*3600))
	assert.EqualValues(t, 2, profile.Streak)

	// Past the window it restarts.
	require.NoError(t, keeper.RecordCompletion(tx, profile, 3, 3, 2000+47*3600+49*3600))
	assert.EqualValues(t, 1, profile.Streak)

	assert.EqualValues(t, 90, profile.Score)
}

func TestRequireVerified(t *testing.T) {
	keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

	_, err := keeper.RequireVerified(tx, "dev:ghost")
	require.ErrorIs(t, err, types.ErrNotVerified)

	require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000))
	profile, err := keeper.RequireVerified(tx, "dev:alice")
	require.NoError(t, err)
	assert.Equal(t, "dev:alice", profile.Address)
}

func TestReputation(t *testing.T) {
	keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

	assert.Zero(t, keeper.Reputation(tx, "dev:ghost"))

	require.NoError(t, keeper.VerifyDeveloper(tx, testAdmin, testAdmin, "dev:alice", "alice-gh", []byte("p"), 1000))
	assert.EqualValues(t, types.KarmaSeed, keeper.Reputation(tx, "dev:alice"))
}

func TestRepositories(t *testing.T) {
	keeper, tx := setupKeeper(t, external.AcceptAllVerifier{})

	t.Run("admin gate", func(t *testing.T) {
		err := keeper.AddRepository(tx, "dev:stranger", testAdmin, "https://github.com/devdao/core", "devdao", 100, nil, 1000)
		require.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("add and re-add is last-write-wins", func(t *testing.T) {
		require.NoError(t, keeper.AddRepository(tx, testAdmin, testAdmin, "https://github.com/devdao/core", "devdao", 100, []string{"infra"}, 1000))
		require.NoError(t, keeper.AddRepository(tx, testAdmin, testAdmin, "https://github.com/devdao/core", "devdao", 250, []string{"infra", "ai"}, 1100))

		repos, err := keeper.Repositories(tx)
		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.EqualValues(t, 250, repos[0].Weight)
		assert.Equal(t, []string{"infra", "ai"}, store.DecodeStrings(repos[0].AllowedCategories))
	})

	t.Run("remove is a soft delete", func(t *testing.T) {
		require.NoError(t, keeper.RemoveRepository(tx, testAdmin, testAdmin, "https://github.com/devdao/core"))

		repos, err := keeper.Repositories(tx)
		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.False(t, repos[0].Active)
		assert.EqualValues(t, 250, repos[0].Weight)
	})

	t.Run("removing an unknown repo fails", func(t *testing.T) {
		err := keeper.RemoveRepository(tx, testAdmin, testAdmin, "https://github.com/devdao/ghost")
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}
