package core

import (
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// VerifyDeveloper verifies (or re-verifies) an identity. Callable by the
// administrator or by an already-verified developer acting as attester.
func (e *Engine) VerifyDeveloper(caller, identity, username string, proof []byte) error {
	return e.write(false, func(tx *gorm.DB) error {
		admin, err := e.admin(tx)
		if err != nil {
			return err
		}
		if err := e.Registry.VerifyDeveloper(tx, caller, admin, identity, username, proof, e.clock.Now()); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventDeveloperVerified, caller, identity, map[string]any{
			"username": username,
		})
	})
}

// ProfileOf returns a developer profile. Pure read.
func (e *Engine) ProfileOf(identity string) (*store.DeveloperProfile, error) {
	var profile *store.DeveloperProfile
	err := e.read(func(tx *gorm.DB) error {
		p, err := e.Registry.ProfileOf(tx, identity)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	return profile, err
}

// AddRepository registers an approved repository. Administrator only; repo
// additions approved by governance run through the proposal pipeline
// instead.
func (e *Engine) AddRepository(caller, url, owner string, weight uint32, categories []string) error {
	return e.write(false, func(tx *gorm.DB) error {
		admin, err := e.admin(tx)
		if err != nil {
			return err
		}
		if err := e.Registry.AddRepository(tx, caller, admin, url, owner, weight, categories, e.clock.Now()); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventRepositoryAdded, caller, url, map[string]any{
			"owner":  owner,
			"weight": weight,
		})
	})
}

// RemoveRepository soft-deletes a repository. Administrator only.
func (e *Engine) RemoveRepository(caller, url string) error {
	return e.write(false, func(tx *gorm.DB) error {
		admin, err := e.admin(tx)
		if err != nil {
			return err
		}
		if err := e.Registry.RemoveRepository(tx, caller, admin, url); err != nil {
			return err
		}
		return e.recordEvent(tx, types.EventRepositoryRemoved, caller, url, nil)
	})
}

// Repositories lists the repository catalog, active and soft-deleted.
func (e *Engine) Repositories() ([]store.Repository, error) {
	var repos []store.Repository
	err := e.read(func(tx *gorm.DB) error {
		r, err := e.Registry.Repositories(tx)
		if err != nil {
			return err
		}
		repos = r
		return nil
	})
	return repos, err
}
