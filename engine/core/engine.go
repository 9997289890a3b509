// Package core wires the DevDAO components into one engine and enforces the
// execution model: every external call runs alone, inside one database
// transaction, and either commits fully or leaves no trace.
package core

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/bounties"
	"github.com/devdao-labs/devdao-node/engine/challenges"
	"github.com/devdao-labs/devdao-node/engine/config"
	"github.com/devdao-labs/devdao-node/engine/db"
	"github.com/devdao-labs/devdao-node/engine/governance"
	"github.com/devdao-labs/devdao-node/engine/logger"
	"github.com/devdao-labs/devdao-node/engine/metrics"
	"github.com/devdao-labs/devdao-node/engine/registry"
	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/treasury"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// Deps are the external handles the engine is constructed with: the
// platform collaborators outside this core plus the pluggable proof
// verifiers and the clock.
type Deps struct {
	Staking              types.StakingLedger
	Distributor          types.RewardDistributor
	Yield                types.YieldSource
	ContributionVerifier types.ContributionVerifier
	CompletionVerifier   types.CompletionVerifier
	Clock                types.Clock
}

// Engine is the governance, treasury and challenge engine facade. All
// mutating entry points are serialized and transactional.
type Engine struct {
	database *db.DB
	log      zerolog.Logger
	clock    types.Clock
	yield    types.YieldSource
	metrics  *metrics.Metrics

	Treasury   *treasury.Keeper
	Registry   *registry.Keeper
	Challenges *challenges.Keeper
	Bounties   *bounties.Keeper
	Governance *governance.Keeper

	// mu serializes external calls; inFlight rejects any call arriving while
	// another is being processed (the reentrancy guard for transfer
	// callbacks).
	mu       sync.Mutex
	inFlight atomic.Bool
}

// New builds and initializes the engine against an opened database. Genesis
// state (treasury allocation, governance parameters, admin) is seeded only
// on a fresh database.
func New(database *db.DB, cfg config.Config, deps Deps, log zerolog.Logger, m *metrics.Metrics) (*Engine, error) {
	e := &Engine{
		database: database,
		log:      logger.Component(log, "engine"),
		clock:    deps.Clock,
		yield:    deps.Yield,
		metrics:  m,
	}

	e.Treasury = treasury.NewKeeper(deps.Distributor, logger.Component(log, "treasury"))
	e.Registry = registry.NewKeeper(deps.ContributionVerifier, logger.Component(log, "registry"))
	e.Challenges = challenges.NewKeeper(deps.CompletionVerifier, deps.Distributor, e.Treasury, e.Registry, logger.Component(log, "challenges"))
	e.Bounties = bounties.NewKeeper(deps.Distributor, e.Registry, logger.Component(log, "bounties"))
	e.Governance = governance.NewKeeper(deps.Staking, e.Registry, deps.Clock, logger.Component(log, "governance"))

	e.registerHandlers()

	if err := e.initState(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// initState seeds the singleton rows on first start.
func (e *Engine) initState(cfg config.Config) error {
	return e.database.Client().Transaction(func(tx *gorm.DB) error {
		genesisAlloc := types.Allocation{
			RewardPoolBps:          cfg.Genesis.Allocation.RewardPoolBps,
			DevelopmentFundBps:     cfg.Genesis.Allocation.DevelopmentFundBps,
			AIInfrastructureBps:    cfg.Genesis.Allocation.AIInfrastructureBps,
			CommunityIncentivesBps: cfg.Genesis.Allocation.CommunityIncentivesBps,
			ReserveBps:             cfg.Genesis.Allocation.ReserveBps,
		}
		if err := e.Treasury.Init(tx, genesisAlloc); err != nil {
			return err
		}

		params := types.GovernanceParams{
			VotingDelaySecs:    cfg.Genesis.VotingDelaySecs,
			VotingPeriodSecs:   cfg.Genesis.VotingPeriodSecs,
			ExecutionDelaySecs: cfg.Genesis.ExecutionDelaySecs,
			ProposalThreshold:  store.ParseAmount(cfg.Genesis.ProposalThreshold),
			QuorumBps:          cfg.Genesis.QuorumBps,
			PassBps:            cfg.Genesis.PassBps,
		}
		if err := e.Governance.InitParams(tx, params, cfg.Admin); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&store.EngineState{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return tx.Create(&store.EngineState{}).Error
		}
		return nil
	})
}

// write runs one mutating external call: reentrancy guard, serialization,
// pause gate, one transaction. A quorum-failed proposal evaluation is the
// single error that still commits — the recorded verdict is itself a state
// transition.
func (e *Engine) write(allowWhilePaused bool, fn func(tx *gorm.DB) error) error {
	if e.inFlight.Load() {
		return types.ErrReentrantCall
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight.Store(true)
	defer e.inFlight.Store(false)

	tx := e.database.Client().Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if !allowWhilePaused {
		paused, err := e.paused(tx)
		if err != nil {
			tx.Rollback()
			return err
		}
		if paused {
			tx.Rollback()
			return types.ErrOperationsPaused
		}
	}

	err := fn(tx)
	if err != nil && !errors.Is(err, types.ErrProposalFailed) {
		tx.Rollback()
		return err
	}
	if cerr := tx.Commit().Error; cerr != nil {
		return cerr
	}
	return err
}

// read runs a pure read. SQLite's single connection serializes it against
// writers.
func (e *Engine) read(fn func(tx *gorm.DB) error) error {
	return fn(e.database.Client())
}

func (e *Engine) paused(tx *gorm.DB) (bool, error) {
	var state store.EngineState
	if err := tx.First(&state).Error; err != nil {
		return false, err
	}
	return state.Paused, nil
}

// admin resolves the administrator from the governance parameter row.
func (e *Engine) admin(tx *gorm.DB) (string, error) {
	return e.Governance.Admin(tx)
}

func (e *Engine) requireAdmin(tx *gorm.DB, caller string) error {
	admin, err := e.admin(tx)
	if err != nil {
		return err
	}
	if caller != admin || admin == "" {
		return types.ErrUnauthorized
	}
	return nil
}
