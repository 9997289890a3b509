package registry

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	"gorm.io/gorm"

	"github.com/devdao-labs/devdao-node/engine/store"
	"github.com/devdao-labs/devdao-node/engine/types"
)

// AddRepository registers (or re-registers) an approved repository. The URL
// is the primary key; re-adding an existing URL overwrites the entry
// last-write-wins, which is the documented behavior.
func (k *Keeper) AddRepository(tx *gorm.DB, caller, admin, url, owner string, weight uint32, categories []string, now int64) error {
	if caller != admin || admin == "" {
		return errorsmod.Wrapf(types.ErrUnauthorized, "caller %s is not the administrator", caller)
	}
	return k.addRepository(tx, url, owner, weight, categories, now)
}

// AddRepositoryFromGovernance registers a repository approved by a passed
// proposal, skipping the admin gate.
func (k *Keeper) AddRepositoryFromGovernance(tx *gorm.DB, url, owner string, weight uint32, categories []string, now int64) error {
	return k.addRepository(tx, url, owner, weight, categories, now)
}

func (k *Keeper) addRepository(tx *gorm.DB, url, owner string, weight uint32, categories []string, now int64) error {
	if url == "" {
		return errorsmod.Wrap(types.ErrInvalidPayload, "repository url required")
	}

	var repo store.Repository
	err := tx.Where("url = ?", url).First(&repo).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		repo = store.Repository{URL: url}
	case err != nil:
		return err
	}

	repo.Owner = owner
	repo.Active = true
	repo.Weight = weight
	repo.AllowedCategories = store.EncodeStrings(categories)
	repo.RegisteredAt = now

	if err := tx.Save(&repo).Error; err != nil {
		return err
	}

	k.logger.Info().
		Str("url", url).
		Str("owner", owner).
		Uint32("weight", weight).
		Msg("repository registered")
	return nil
}

// RemoveRepository soft-deletes a repository entry, keeping its historical
// weight data. Administrator only.
func (k *Keeper) RemoveRepository(tx *gorm.DB, caller, admin, url string) error {
	if caller != admin || admin == "" {
		return errorsmod.Wrapf(types.ErrUnauthorized, "caller %s is not the administrator", caller)
	}
	return k.RemoveRepositoryFromGovernance(tx, url)
}

// RemoveRepositoryFromGovernance soft-deletes a repository on behalf of a
// passed proposal.
func (k *Keeper) RemoveRepositoryFromGovernance(tx *gorm.DB, url string) error {
	var repo store.Repository
	if err := tx.Where("url = ?", url).First(&repo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorsmod.Wrapf(types.ErrNotFound, "repository %s was never added", url)
		}
		return err
	}

	repo.Active = false
	if err := tx.Save(&repo).Error; err != nil {
		return err
	}

	k.logger.Info().Str("url", url).Msg("repository deactivated")
	return nil
}

// Repositories lists all entries, active and soft-deleted.
func (k *Keeper) Repositories(tx *gorm.DB) ([]store.Repository, error) {
	var repos []store.Repository
	if err := tx.Order("id").Find(&repos).Error; err != nil {
		return nil, err
	}
	return repos, nil
}
