package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
)

const minPrefixLen = 4

// findCredential resolves ref as a full id, an id prefix or a name, in that
// order. Prefix and name matches must be unique.
func findCredential(snap *models.Snapshot, ref string) (*models.Credential, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: credential reference is empty", common.ErrValidation)
	}
	if c, _ := snap.FindCredential(ref); c != nil {
		return c, nil
	}

	all := snap.All()
	if len(ref) >= minPrefixLen {
		if c, err := unique(ref, all, func(c *models.Credential) bool {
			return strings.HasPrefix(c.ID, strings.ToLower(ref))
		}); c != nil || err != nil {
			return c, err
		}
	}

	c, err := unique(ref, all, func(c *models.Credential) bool {
		return strings.EqualFold(c.Name, ref)
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("credential %q: %w", ref, common.ErrNotFound)
	}
	return c, nil
}

func unique(ref string, all []*models.Credential, match func(*models.Credential) bool) (*models.Credential, error) {
	var found *models.Credential
	for _, c := range all {
		if !match(c) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q matches more than one credential, use the id", common.ErrValidation, ref)
		}
		found = c
	}
	return found, nil
}

// findGroup resolves ref as a group id, id prefix or name.
func findGroup(snap *models.Snapshot, ref string) (*models.Group, error) {
	ref = strings.TrimSpace(ref)
	if g := snap.FindGroup(ref); g != nil {
		return g, nil
	}
	if g := snap.FindGroupByName(ref); g != nil {
		return g, nil
	}
	if len(ref) >= minPrefixLen {
		var found *models.Group
		for _, g := range snap.Groups {
			if strings.HasPrefix(g.ID, strings.ToLower(ref)) {
				if found != nil {
					return nil, fmt.Errorf("%w: %q matches more than one group", common.ErrValidation, ref)
				}
				found = g
			}
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", ref, common.ErrNotFound)
}
