package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/google/uuid"
)

// Snapshot is the root document persisted as a single JSON file.
type Snapshot struct {
	Groups     []*Group  `json:"groups"`
	LastBackup time.Time `json:"lastBackup"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	Settings   *Settings `json:"settings"`
	Theme      *Theme    `json:"theme"`
}

// NewSnapshot returns the empty document of a fresh install. It is also used
// as the decode target on load so keys absent from the file keep their
// defaults.
func NewSnapshot(now time.Time) *Snapshot {
	s := DefaultSettings()
	th := DefaultTheme()
	return &Snapshot{
		Groups:    []*Group{},
		Version:   common.DataVersion,
		CreatedAt: now,
		Settings:  &s,
		Theme:     &th,
	}
}

// Normalize repairs a freshly decoded snapshot in place. Groups and
// credentials without a name are dropped, missing ids are assigned and a
// credential carrying both lifecycle flags is kept as trashed. It fails with
// common.ErrFormat when the document is unusable.
func (s *Snapshot) Normalize() error {
	if strings.TrimSpace(s.Version) == "" {
		return fmt.Errorf("%w: missing version", common.ErrFormat)
	}
	if s.Settings == nil {
		d := DefaultSettings()
		s.Settings = &d
	}
	if s.Settings.TrashRetentionDays <= 0 {
		s.Settings.TrashRetentionDays = DefaultTrashRetentionDays
	}
	if s.Theme == nil || (s.Theme.CurrentTheme != ThemeLight && s.Theme.CurrentTheme != ThemeDark) {
		th := DefaultTheme()
		s.Theme = &th
	}

	groups := make([]*Group, 0, len(s.Groups))
	seen := make(map[string]struct{}, len(s.Groups))
	for _, g := range s.Groups {
		if g == nil || strings.TrimSpace(g.Name) == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(g.Name))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: group %q: %w", common.ErrFormat, g.Name, common.ErrDuplicateName)
		}
		seen[key] = struct{}{}

		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		if g.Icon == "" {
			g.Icon = DefaultGroupIcon
		}
		if g.ColorVariant == "" {
			g.ColorVariant = DefaultGroupColor
		}

		accounts := make([]*Credential, 0, len(g.Accounts))
		for _, c := range g.Accounts {
			if c == nil || strings.TrimSpace(c.Name) == "" {
				continue
			}
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			if c.IsTrashed && c.IsArchived {
				c.IsArchived = false
				c.ArchivedDate = nil
			}
			accounts = append(accounts, c)
		}
		g.Accounts = accounts
		groups = append(groups, g)
	}
	s.Groups = groups

	return nil
}

// Clone returns a deep copy that shares nothing with s.
func (s *Snapshot) Clone() *Snapshot {
	cp := *s
	cp.Groups = make([]*Group, len(s.Groups))
	for i, g := range s.Groups {
		cp.Groups[i] = g.Clone()
	}
	if s.Settings != nil {
		cp.Settings = s.Settings.Clone()
	}
	if s.Theme != nil {
		th := *s.Theme
		cp.Theme = &th
	}
	return &cp
}

// FindGroup returns the group with the given id.
func (s *Snapshot) FindGroup(id string) *Group {
	for _, g := range s.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// FindGroupByName matches names case-insensitively.
func (s *Snapshot) FindGroupByName(name string) *Group {
	name = strings.TrimSpace(name)
	for _, g := range s.Groups {
		if strings.EqualFold(g.Name, name) {
			return g
		}
	}
	return nil
}

// FindCredential returns the credential with the given id and its owner.
func (s *Snapshot) FindCredential(id string) (*Credential, *Group) {
	for _, g := range s.Groups {
		for _, c := range g.Accounts {
			if c.ID == id {
				return c, g
			}
		}
	}
	return nil, nil
}

// Owner returns the group whose list holds c.
func (s *Snapshot) Owner(c *Credential) *Group {
	for _, g := range s.Groups {
		if g.Contains(c) {
			return g
		}
	}
	return nil
}

// RemoveGroup drops the group and every credential it owns.
func (s *Snapshot) RemoveGroup(id string) bool {
	for i, g := range s.Groups {
		if g.ID == id {
			s.Groups = append(s.Groups[:i], s.Groups[i+1:]...)
			return true
		}
	}
	return false
}
