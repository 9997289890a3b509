// Package registry implements the developer verification registry and the
// approved-repository catalog.
package registry

import (
	"github.com/rs/zerolog"

	"github.com/devdao-labs/devdao-node/engine/types"
)

// Keeper owns developer profiles and repository entries.
type Keeper struct {
	verifier types.ContributionVerifier
	logger   zerolog.Logger
}

// NewKeeper creates the registry keeper.
func NewKeeper(verifier types.ContributionVerifier, logger zerolog.Logger) *Keeper {
	return &Keeper{
		verifier: verifier,
		logger:   logger,
	}
}
