package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/snapshot"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// PathManager records where the data file lives.
type PathManager interface {
	SetCustomPath(ctx context.Context, path string) (string, error)
	ResetToDefault(ctx context.Context) error
	CustomPath() (string, bool)
	DisplayPath() string
}

// Passphraser holds the session passphrase.
type Passphraser interface {
	SetPassphrase(p []byte)
	ClearPassphrase()
	HasPassphrase() bool
	Passphrase() []byte
}

// SettingsService reads and changes settings. Every change is saved
// immediately.
type SettingsService interface {
	// Settings falls back to defaults while the data file is still locked.
	Settings(ctx context.Context) (models.Settings, error)
	Theme(ctx context.Context) (models.Theme, error)

	// Update applies fn to a copy of the settings, validates and saves it.
	Update(ctx context.Context, fn func(st *models.Settings)) error
	SetTheme(ctx context.Context, theme string) error
	SetTrashRetentionDays(ctx context.Context, days int) error
	SetAutoEmptyTrash(ctx context.Context, enabled bool) error

	// SetEnableTrash and SetEnableArchive consult r before turning a
	// feature off while credentials still use it.
	SetEnableTrash(ctx context.Context, enabled bool, r Resolver) error
	SetEnableArchive(ctx context.Context, enabled bool, r Resolver) error

	// SetCustomDataPath relocates the data file. The current snapshot is
	// written to the new location.
	SetCustomDataPath(ctx context.Context, path string) (string, error)
	ResetDataPath(ctx context.Context) error
	DataPath() string

	EnableEncryption(ctx context.Context, passphrase []byte) error
	DisableEncryption(ctx context.Context) error

	// ResetToDefaults restores default settings and theme. The data path and
	// encryption state are kept.
	ResetToDefaults(ctx context.Context) error
}

type settingsService struct {
	repo  snapshot.Repository
	paths PathManager
	gate  Passphraser
	log   logging.Logger
	now   func() time.Time
}

func NewSettingsService(repo snapshot.Repository, paths PathManager, gate Passphraser, log logging.Logger) SettingsService {
	return &settingsService{
		repo:  repo,
		paths: paths,
		gate:  gate,
		log:   log.With("component", "settings"),
		now:   time.Now,
	}
}

func (s *settingsService) Settings(ctx context.Context) (models.Settings, error) {
	snap, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrEncryptionPending) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, err
	}
	return *snap.Settings.Clone(), nil
}

func (s *settingsService) Theme(ctx context.Context) (models.Theme, error) {
	snap, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrEncryptionPending) {
			return models.DefaultTheme(), nil
		}
		return models.Theme{}, err
	}
	return *snap.Theme, nil
}

func (s *settingsService) Update(ctx context.Context, fn func(st *models.Settings)) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		trash, archive := snap.Settings.EnableTrash, snap.Settings.EnableArchive
		fn(snap.Settings)
		if err := models.Validate(snap.Settings); err != nil {
			return err
		}
		// feature switches must go through the migration check
		if (trash && !snap.Settings.EnableTrash && len(snap.Trashed()) > 0) ||
			(archive && !snap.Settings.EnableArchive && len(snap.Archived()) > 0) {
			return fmt.Errorf("%w: credentials still use the feature", common.ErrMigrationAborted)
		}
		return nil
	})
	return err
}

func (s *settingsService) SetTheme(ctx context.Context, theme string) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		th := models.Theme{CurrentTheme: theme}
		if err := models.Validate(&th); err != nil {
			return err
		}
		if *snap.Theme == th {
			return errUnchanged
		}
		snap.Theme = &th
		return nil
	})
	return err
}

func (s *settingsService) SetTrashRetentionDays(ctx context.Context, days int) error {
	return s.Update(ctx, func(st *models.Settings) { st.TrashRetentionDays = days })
}

func (s *settingsService) SetAutoEmptyTrash(ctx context.Context, enabled bool) error {
	return s.Update(ctx, func(st *models.Settings) { st.AutoEmptyTrash = enabled })
}

func (s *settingsService) SetEnableTrash(ctx context.Context, enabled bool, r Resolver) error {
	return s.setFeature(ctx, FeatureTrash, enabled, r)
}

func (s *settingsService) SetEnableArchive(ctx context.Context, enabled bool, r Resolver) error {
	return s.setFeature(ctx, FeatureArchive, enabled, r)
}

func (s *settingsService) setFeature(ctx context.Context, feature Feature, enabled bool, r Resolver) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		flag := &snap.Settings.EnableTrash
		if feature == FeatureArchive {
			flag = &snap.Settings.EnableArchive
		}
		if *flag == enabled {
			return errUnchanged
		}

		if !enabled {
			if affected := Affected(snap, feature); len(affected) > 0 {
				if r == nil {
					return fmt.Errorf("disable %s: %w", feature, common.ErrMigrationAborted)
				}
				res, err := r.Resolve(ctx, feature, affected, snap.Groups)
				if err != nil {
					if errors.Is(err, common.ErrMigrationAborted) {
						return err
					}
					return fmt.Errorf("disable %s: %w: %w", feature, common.ErrMigrationAborted, err)
				}
				if err := ApplyResolution(snap, feature, res, s.now()); err != nil {
					return err
				}
				s.log.Info(ctx, "feature migration applied", "feature", feature, "affected", len(affected), "action", res.Action)
			}
		}

		*flag = enabled
		return nil
	})
	return err
}

func (s *settingsService) SetCustomDataPath(ctx context.Context, path string) (string, error) {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}

	prev, hadPrev := s.paths.CustomPath()

	abs, err := s.paths.SetCustomPath(ctx, path)
	if err != nil {
		return "", err
	}

	next := cur.Clone()
	if path == "" {
		next.Settings.CustomDataPath = nil
	} else {
		next.Settings.CustomDataPath = &abs
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.restorePointer(ctx, prev, hadPrev)
		return "", err
	}
	return abs, nil
}

func (s *settingsService) ResetDataPath(ctx context.Context) error {
	_, err := s.SetCustomDataPath(ctx, "")
	return err
}

func (s *settingsService) restorePointer(ctx context.Context, prev string, hadPrev bool) {
	var err error
	if hadPrev {
		_, err = s.paths.SetCustomPath(ctx, prev)
	} else {
		err = s.paths.ResetToDefault(ctx)
	}
	if err != nil {
		s.log.Error(ctx, "restore previous data path", "err", err)
	}
}

func (s *settingsService) DataPath() string {
	return s.paths.DisplayPath()
}

func (s *settingsService) EnableEncryption(ctx context.Context, passphrase []byte) error {
	if len(passphrase) == 0 {
		return fmt.Errorf("%w: passphrase must not be empty", common.ErrValidation)
	}

	cur, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}

	prev := s.gate.Passphrase()
	defer common.WipeByteArray(prev)
	s.gate.SetPassphrase(passphrase)

	next := cur.Clone()
	next.Settings.EnableEncryption = true
	if err := s.repo.Save(ctx, next); err != nil {
		s.restorePassphrase(prev)
		return err
	}

	s.log.Info(ctx, "encryption enabled")
	return nil
}

func (s *settingsService) DisableEncryption(ctx context.Context) error {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}

	prev := s.gate.Passphrase()
	defer common.WipeByteArray(prev)
	s.gate.ClearPassphrase()

	next := cur.Clone()
	next.Settings.EnableEncryption = false
	if err := s.repo.Save(ctx, next); err != nil {
		s.restorePassphrase(prev)
		return err
	}

	s.log.Info(ctx, "encryption disabled")
	return nil
}

// restorePassphrase puts the gate back the way it was before a failed save,
// so the file on disk stays readable with the key it was written with.
func (s *settingsService) restorePassphrase(prev []byte) {
	if len(prev) == 0 {
		s.gate.ClearPassphrase()
		return
	}
	s.gate.SetPassphrase(prev)
}

func (s *settingsService) ResetToDefaults(ctx context.Context) error {
	_, err := update(ctx, s.repo, func(snap *models.Snapshot) error {
		// defaults enable trash and archive, so no credential is stranded
		st := models.DefaultSettings()
		st.CustomDataPath = snap.Settings.CustomDataPath
		st.EnableEncryption = snap.Settings.EnableEncryption

		th := models.DefaultTheme()
		snap.Settings = &st
		snap.Theme = &th
		return nil
	})
	return err
}
