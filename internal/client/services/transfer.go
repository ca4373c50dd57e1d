package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/snapshot"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/google/uuid"
)

// ImportResult counts what an import changed.
type ImportResult struct {
	GroupsAdded      int
	GroupsMerged     int
	CredentialsAdded int
	Skipped          int
	Replaced         bool
}

// TransferService moves whole documents in and out of the vault.
type TransferService interface {
	// Import reads path and either replaces the current document with it or
	// merges its groups by name. Credentials whose id already exists are
	// skipped during a merge. passphrase may be nil.
	Import(ctx context.Context, path string, passphrase []byte, replace bool) (ImportResult, error)

	// Export writes the current document to path. An empty path picks a
	// timestamped file name in the working directory.
	Export(ctx context.Context, path string) (string, error)

	// Backup is Export that also records the backup time.
	Backup(ctx context.Context, dest string) (string, error)
}

type transferService struct {
	repo snapshot.Repository
	log  logging.Logger
	now  func() time.Time
}

func NewTransferService(repo snapshot.Repository, log logging.Logger) TransferService {
	return &transferService{repo: repo, log: log.With("component", "transfer"), now: time.Now}
}

func (s *transferService) Import(ctx context.Context, path string, passphrase []byte, replace bool) (ImportResult, error) {
	incoming, err := s.repo.Import(ctx, path, passphrase)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	_, err = update(ctx, s.repo, func(snap *models.Snapshot) error {
		if replace {
			res = replaceWith(snap, incoming)
			return nil
		}
		res = merge(snap, incoming, s.now())
		if res.GroupsAdded == 0 && res.CredentialsAdded == 0 {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", path, err)
	}

	s.log.Info(ctx, "import applied", "path", path, "replace", replace,
		"groups_added", res.GroupsAdded, "credentials_added", res.CredentialsAdded, "skipped", res.Skipped)
	return res, nil
}

// replaceWith swaps the document content but keeps the local data path and
// encryption switch, which describe this installation rather than the data.
func replaceWith(snap, incoming *models.Snapshot) ImportResult {
	st := incoming.Settings.Clone()
	st.CustomDataPath = snap.Settings.CustomDataPath
	st.EnableEncryption = snap.Settings.EnableEncryption

	snap.Groups = incoming.Groups
	snap.Settings = st
	snap.Theme = incoming.Theme
	snap.LastBackup = incoming.LastBackup

	res := ImportResult{Replaced: true, GroupsAdded: len(incoming.Groups)}
	for _, g := range incoming.Groups {
		res.CredentialsAdded += len(g.Accounts)
	}
	return res
}

func merge(snap, incoming *models.Snapshot, now time.Time) ImportResult {
	var res ImportResult

	known := make(map[string]bool)
	for _, c := range snap.All() {
		known[c.ID] = true
	}

	for _, in := range incoming.Groups {
		target := snap.FindGroupByName(in.Name)
		if target == nil {
			g := in.Clone()
			if snap.FindGroup(g.ID) != nil {
				g.ID = uuid.NewString()
			}
			g.Accounts = []*models.Credential{}
			snap.Groups = append(snap.Groups, g)
			target = g
			res.GroupsAdded++
		} else {
			res.GroupsMerged++
		}

		for _, c := range in.Accounts {
			if known[c.ID] {
				res.Skipped++
				continue
			}
			cp := c.Clone()
			if cp.PreviousGroupID != nil && *cp.PreviousGroupID == in.ID {
				id := target.ID
				cp.PreviousGroupID = &id
			}
			target.Add(cp, now)
			known[cp.ID] = true
			res.CredentialsAdded++
		}
	}
	return res
}

func (s *transferService) Export(ctx context.Context, path string) (string, error) {
	path = s.exportPath(path)
	if err := s.repo.Export(ctx, path); err != nil {
		return "", err
	}
	s.log.Info(ctx, "snapshot exported", "path", path)
	return path, nil
}

func (s *transferService) Backup(ctx context.Context, dest string) (string, error) {
	dest = s.exportPath(dest)
	if err := s.repo.Backup(ctx, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *transferService) exportPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Sprintf("accounts_export_%s.json", s.now().Format("20060102_150405"))
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return filepath.Join(path, fmt.Sprintf("accounts_export_%s.json", s.now().Format("20060102_150405")))
	}
	return path
}
