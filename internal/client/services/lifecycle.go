package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/snapshot"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// DeleteOutcome tells the caller what Delete did.
type DeleteOutcome int

const (
	// DeleteTrashed means the credential went to the trash.
	DeleteTrashed DeleteOutcome = iota
	// DeleteRemoved means the credential is gone for good.
	DeleteRemoved
)

type GroupInput struct {
	Name         string
	Icon         string
	ColorVariant string
}

type CredentialInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Website  string
	Notes    string
}

// LifecycleService manages groups and moves credentials between the
// Active, Archived and Trashed states.
type LifecycleService interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)

	CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error)
	UpdateGroup(ctx context.Context, id string, in GroupInput) (*models.Group, error)
	// DeleteGroup removes the group together with every credential in it.
	DeleteGroup(ctx context.Context, id string) error

	AddCredential(ctx context.Context, groupID string, in CredentialInput) (*models.Credential, error)
	UpdateCredential(ctx context.Context, id string, in CredentialInput) (*models.Credential, error)
	MoveCredential(ctx context.Context, id, groupID string) error

	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Archive(ctx context.Context, id string) error
	Trash(ctx context.Context, id string) error
	// Delete trashes the credential when the trash is enabled and removes it
	// permanently otherwise.
	Delete(ctx context.Context, id string) (DeleteOutcome, error)
	// Restore makes an archived or trashed credential active again and
	// returns the group it now lives in.
	Restore(ctx context.Context, id string) (*models.Group, error)
	DeletePermanently(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context) (int, error)
	// PurgeExpired drops trashed credentials older than the retention
	// period when automatic emptying is on.
	PurgeExpired(ctx context.Context) (int, error)
}

type lifecycleService struct {
	repo snapshot.Repository
	log  logging.Logger
	now  func() time.Time
}

func NewLifecycleService(repo snapshot.Repository, log logging.Logger) LifecycleService {
	return &lifecycleService{repo: repo, log: log.With("component", "lifecycle"), now: time.Now}
}

func (s *lifecycleService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	return s.repo.Get(ctx)
}

func (s *lifecycleService) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	var created *models.Group
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		g := models.NewGroup(strings.TrimSpace(in.Name), s.now())
		applyGroupInput(g, in)
		if err := checkGroup(snap, g); err != nil {
			return err
		}
		snap.Groups = append(snap.Groups, g)
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *lifecycleService) UpdateGroup(ctx context.Context, id string, in GroupInput) (*models.Group, error) {
	var updated *models.Group
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		g := snap.FindGroup(id)
		if g == nil {
			return fmt.Errorf("group %s: %w", id, common.ErrNotFound)
		}
		if n := strings.TrimSpace(in.Name); n != "" {
			g.Name = n
		}
		applyGroupInput(g, in)
		if err := checkGroup(snap, g); err != nil {
			return err
		}
		g.LastModified = s.now()
		updated = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *lifecycleService) DeleteGroup(ctx context.Context, id string) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		if !snap.RemoveGroup(id) {
			return fmt.Errorf("group %s: %w", id, common.ErrNotFound)
		}
		return nil
	})
	return err
}

func (s *lifecycleService) AddCredential(ctx context.Context, groupID string, in CredentialInput) (*models.Credential, error) {
	var created *models.Credential
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		g := snap.FindGroup(groupID)
		if g == nil {
			return fmt.Errorf("group %s: %w", groupID, common.ErrNotFound)
		}

		now := s.now()
		c := models.NewCredential("", now)
		applyCredentialInput(c, in)
		if err := models.Validate(c); err != nil {
			return err
		}

		g.Add(c, now)
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *lifecycleService) UpdateCredential(ctx context.Context, id string, in CredentialInput) (*models.Credential, error) {
	var updated *models.Credential
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		c, _, err := findCredential(snap, id)
		if err != nil {
			return err
		}
		applyCredentialInput(c, in)
		if err := models.Validate(c); err != nil {
			return err
		}
		c.LastModified = s.now()
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *lifecycleService) MoveCredential(ctx context.Context, id, groupID string) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		c, owner, err := findCredential(snap, id)
		if err != nil {
			return err
		}
		target := snap.FindGroup(groupID)
		if target == nil {
			return fmt.Errorf("group %s: %w", groupID, common.ErrNotFound)
		}
		if target == owner {
			return errUnchanged
		}

		now := s.now()
		owner.Remove(c, now)
		target.Add(c, now)
		c.LastModified = now
		return nil
	})
	return err
}

func (s *lifecycleService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var fav bool
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		c, _, err := findCredential(snap, id)
		if err != nil {
			return err
		}
		if c.State() == models.StateTrashed {
			return fmt.Errorf("favorite %q: %w: credential is in the trash", c.Name, common.ErrInvalidTransition)
		}
		c.IsFavorite = !c.IsFavorite
		c.LastModified = s.now()
		fav = c.IsFavorite
		return nil
	})
	return fav, err
}

func (s *lifecycleService) Archive(ctx context.Context, id string) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		if !snap.Settings.EnableArchive {
			return fmt.Errorf("archive: %w", common.ErrFeatureDisabled)
		}
		c, owner, err := findCredential(snap, id)
		if err != nil {
			return err
		}
		if c.State() != models.StateActive {
			return fmt.Errorf("archive %q: %w: credential is %s", c.Name, common.ErrInvalidTransition, c.State())
		}
		c.MarkArchived(owner.ID, s.now())
		return nil
	})
	return err
}

func (s *lifecycleService) Trash(ctx context.Context, id string) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		if !snap.Settings.EnableTrash {
			return fmt.Errorf("trash: %w", common.ErrFeatureDisabled)
		}
		return s.trash(snap, id)
	})
	return err
}

func (s *lifecycleService) trash(snap *models.Snapshot, id string) error {
	c, owner, err := findCredential(snap, id)
	if err != nil {
		return err
	}
	if c.State() == models.StateTrashed {
		return fmt.Errorf("trash %q: %w: already in the trash", c.Name, common.ErrInvalidTransition)
	}
	c.MarkTrashed(owner.ID, s.now())
	return nil
}

func (s *lifecycleService) Delete(ctx context.Context, id string) (DeleteOutcome, error) {
	outcome := DeleteRemoved
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		c, owner, err := findCredential(snap, id)
		if err != nil {
			return err
		}

		if snap.Settings.EnableTrash && c.State() != models.StateTrashed {
			outcome = DeleteTrashed
			return s.trash(snap, id)
		}

		owner.Remove(c, s.now())
		return nil
	})
	return outcome, err
}

func (s *lifecycleService) Restore(ctx context.Context, id string) (*models.Group, error) {
	var home *models.Group
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		c, owner, err := findCredential(snap, id)
		if err != nil {
			return err
		}
		if c.State() == models.StateActive {
			return fmt.Errorf("restore %q: %w: credential is active", c.Name, common.ErrInvalidTransition)
		}

		now := s.now()
		home = restoreTarget(snap, c, owner, now)
		c.MarkActive(now)
		if home != owner {
			owner.Remove(c, now)
			home.Add(c, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return home, nil
}

// restoreTarget prefers the recorded previous group, then the current owner,
// then the first group, and finally creates a default group.
func restoreTarget(snap *models.Snapshot, c *models.Credential, owner *models.Group, now time.Time) *models.Group {
	if c.PreviousGroupID != nil {
		if g := snap.FindGroup(*c.PreviousGroupID); g != nil {
			return g
		}
	}
	if owner != nil {
		return owner
	}
	if len(snap.Groups) > 0 {
		return snap.Groups[0]
	}
	g := models.NewGroup(models.DefaultGroupName, now)
	snap.Groups = append(snap.Groups, g)
	return g
}

func (s *lifecycleService) DeletePermanently(ctx context.Context, id string) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		c, owner, err := findCredential(snap, id)
		if err != nil {
			return err
		}
		if snap.Settings.EnableTrash && c.State() != models.StateTrashed {
			return fmt.Errorf("delete %q: %w: move it to the trash first", c.Name, common.ErrInvalidTransition)
		}
		owner.Remove(c, s.now())
		return nil
	})
	return err
}

func (s *lifecycleService) EmptyTrash(ctx context.Context) (int, error) {
	n, err := s.removeTrashed(ctx, func(*models.Credential) bool { return true })
	if err == nil && n > 0 {
		s.log.Info(ctx, "trash emptied", "removed", n)
	}
	return n, err
}

func (s *lifecycleService) PurgeExpired(ctx context.Context) (int, error) {
	snap, err := s.repo.Get(ctx)
	if err != nil {
		return 0, err
	}
	st := snap.Settings
	if !st.AutoEmptyTrash || !st.EnableTrash || st.TrashRetentionDays <= 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-time.Duration(st.TrashRetentionDays) * 24 * time.Hour)
	n, err := s.removeTrashed(ctx, func(c *models.Credential) bool {
		return c.TrashedDate != nil && c.TrashedDate.Before(cutoff)
	})
	if err == nil && n > 0 {
		s.log.Info(ctx, "expired trash purged", "removed", n, "retention_days", st.TrashRetentionDays)
	}
	return n, err
}

func (s *lifecycleService) removeTrashed(ctx context.Context, match func(*models.Credential) bool) (int, error) {
	removed := 0
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		now := s.now()
		for _, g := range snap.Groups {
			kept := g.Accounts[:0]
			for _, c := range g.Accounts {
				if c.State() == models.StateTrashed && match(c) {
					removed++
					continue
				}
				kept = append(kept, c)
			}
			if len(kept) != len(g.Accounts) {
				g.Accounts = kept
				g.LastModified = now
			}
		}
		if removed == 0 {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func findCredential(snap *models.Snapshot, id string) (*models.Credential, *models.Group, error) {
	c, owner := snap.FindCredential(id)
	if c == nil {
		return nil, nil, fmt.Errorf("credential %s: %w", id, common.ErrNotFound)
	}
	return c, owner, nil
}

func checkGroup(snap *models.Snapshot, g *models.Group) error {
	if err := models.Validate(g); err != nil {
		return err
	}
	if other := snap.FindGroupByName(g.Name); other != nil && other != g {
		return fmt.Errorf("group %q: %w", g.Name, common.ErrDuplicateName)
	}
	return nil
}

func applyGroupInput(g *models.Group, in GroupInput) {
	if in.Icon != "" {
		g.Icon = in.Icon
	}
	if in.ColorVariant != "" {
		g.ColorVariant = in.ColorVariant
	}
}

func applyCredentialInput(c *models.Credential, in CredentialInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Username = in.Username
	c.Email = strings.TrimSpace(in.Email)
	c.Password = in.Password
	c.Website = strings.TrimSpace(in.Website)
	c.Notes = in.Notes
}
