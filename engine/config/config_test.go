package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.QueryServerPort)
	assert.Equal(t, int64(3600), cfg.Genesis.VotingDelaySecs)
	assert.Equal(t, int64(259200), cfg.Genesis.VotingPeriodSecs)
	assert.Equal(t, int64(86400), cfg.Genesis.ExecutionDelaySecs)
	assert.Equal(t, "1000000000000000000000", cfg.Genesis.ProposalThreshold)
	assert.EqualValues(t, 5000, cfg.Genesis.QuorumBps)
	assert.EqualValues(t, 5100, cfg.Genesis.PassBps)

	alloc := cfg.Genesis.Allocation
	sum := alloc.RewardPoolBps + alloc.DevelopmentFundBps + alloc.AIInfrastructureBps +
		alloc.CommunityIncentivesBps + alloc.ReserveBps
	assert.EqualValues(t, 10000, sum)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Default()
	require.NoError(t, err)
	cfg.Admin = "dev:admin"
	cfg.QueryServerPort = 9999

	require.NoError(t, Save(cfg, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "dev:admin", loaded.Admin)
	assert.Equal(t, 9999, loaded.QueryServerPort)
	assert.Equal(t, cfg.Genesis, loaded.Genesis)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	t.Run("back-fills zero values", func(t *testing.T) {
		cfg := Config{LogFormat: "json"}
		require.NoError(t, validateConfig(&cfg))

		assert.Equal(t, 8080, cfg.QueryServerPort)
		assert.EqualValues(t, 5000, cfg.Genesis.QuorumBps)
		assert.NotEmpty(t, cfg.DataDir)
	})

	t.Run("rejects bad log level", func(t *testing.T) {
		cfg := Config{LogLevel: 7}
		require.Error(t, validateConfig(&cfg))
	})

	t.Run("rejects bad log format", func(t *testing.T) {
		cfg := Config{LogFormat: "xml"}
		require.Error(t, validateConfig(&cfg))
	})
}
