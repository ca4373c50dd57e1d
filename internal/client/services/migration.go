package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
)

// Feature names a lifecycle feature that can be switched off.
type Feature string

const (
	FeatureTrash   Feature = "trash"
	FeatureArchive Feature = "archive"
)

// Action is the fate chosen for credentials stranded by a disabled feature.
type Action int

const (
	ActionMigrate Action = iota
	ActionDelete
)

// Resolution is the user's answer to a migration prompt.
type Resolution struct {
	Action        Action
	TargetGroupID string
}

// MigrateTo moves every affected credential into the group and makes it
// active.
func MigrateTo(groupID string) Resolution {
	return Resolution{Action: ActionMigrate, TargetGroupID: groupID}
}

// DeleteAll removes every affected credential.
func DeleteAll() Resolution {
	return Resolution{Action: ActionDelete}
}

// Resolver decides what happens to the credentials that would be stranded
// when feature is turned off. Returning an error abandons the change.
type Resolver interface {
	Resolve(ctx context.Context, feature Feature, affected []*models.Credential, groups []*models.Group) (Resolution, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, feature Feature, affected []*models.Credential, groups []*models.Group) (Resolution, error)

func (f ResolverFunc) Resolve(ctx context.Context, feature Feature, affected []*models.Credential, groups []*models.Group) (Resolution, error) {
	return f(ctx, feature, affected, groups)
}

// Affected lists the credentials parked in feature's state.
func Affected(s *models.Snapshot, feature Feature) []*models.Credential {
	switch feature {
	case FeatureTrash:
		return s.Trashed()
	case FeatureArchive:
		return s.Archived()
	default:
		return nil
	}
}

// ApplyResolution carries out res for every credential affected by
// disabling feature. The snapshot is left untouched when res is invalid.
func ApplyResolution(s *models.Snapshot, feature Feature, res Resolution, now time.Time) error {
	affected := Affected(s, feature)

	switch res.Action {
	case ActionDelete:
		for _, c := range affected {
			if owner := s.Owner(c); owner != nil {
				owner.Remove(c, now)
			}
		}
		return nil

	case ActionMigrate:
		target := s.FindGroup(res.TargetGroupID)
		if target == nil {
			return fmt.Errorf("migration target %s: %w", res.TargetGroupID, common.ErrNotFound)
		}
		for _, c := range affected {
			clearFeature(c, feature, now)
			if owner := s.Owner(c); owner != nil && owner != target {
				owner.Remove(c, now)
			}
			target.Add(c, now)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown action %d", common.ErrMigrationAborted, res.Action)
	}
}

func clearFeature(c *models.Credential, feature Feature, now time.Time) {
	switch feature {
	case FeatureTrash:
		c.IsTrashed = false
		c.TrashedDate = nil
	case FeatureArchive:
		c.IsArchived = false
		c.ArchivedDate = nil
	}
	c.PreviousGroupID = nil
	c.LastModified = now
}
