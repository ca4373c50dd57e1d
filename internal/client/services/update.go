// Package services implements the vault operations on top of the snapshot
// repository: credential lifecycle, feature migrations and settings.
//
// Every mutation is applied to a clone of the cached snapshot and persisted
// with a single Save. When validation or the save fails the cached snapshot
// stays exactly as it was.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/snapshot"
)

// errUnchanged lets a mutation report that nothing needs saving.
var errUnchanged = errors.New("unchanged")

func update(ctx context.Context, repo snapshot.Repository, fn func(s *models.Snapshot) error) (*models.Snapshot, error) {
	cur, err := repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	next := cur.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errUnchanged) {
			return cur, nil
		}
		return nil, err
	}

	if err := repo.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}
