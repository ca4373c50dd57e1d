package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/services"
	"github.com/dmitrijs2005/passvault/internal/common"
)

// migrationResolver asks the user what to do with the credentials that would
// be stranded by turning a feature off.
func (a *App) migrationResolver() services.Resolver {
	return services.ResolverFunc(func(ctx context.Context, feature services.Feature, affected []*models.Credential, groups []*models.Group) (services.Resolution, error) {
		fmt.Fprintf(a.out, "%d credential(s) are still in the %s:\n", len(affected), feature)
		for _, c := range affected {
			fmt.Fprintf(a.out, "  %s  %s\n", shortID(c.ID), c.Name)
		}

		answer, err := getSimpleText(a.reader, "Move them to a group (m), delete them (d) or cancel (c)?", a.out)
		if err != nil {
			return services.Resolution{}, err
		}

		switch strings.ToLower(answer) {
		case "m", "move":
			ref, err := GetWithDefault(a.reader, "Target group", firstGroupName(groups), a.out)
			if err != nil {
				return services.Resolution{}, err
			}
			for _, g := range groups {
				if g.ID == ref || strings.EqualFold(g.Name, ref) {
					return services.MigrateTo(g.ID), nil
				}
			}
			return services.Resolution{}, fmt.Errorf("group %q: %w", ref, common.ErrNotFound)

		case "d", "delete":
			if !confirm(a.reader, fmt.Sprintf("Permanently delete %d credential(s)?", len(affected)), a.out) {
				return services.Resolution{}, common.ErrMigrationAborted
			}
			return services.DeleteAll(), nil

		default:
			return services.Resolution{}, common.ErrMigrationAborted
		}
	})
}

func firstGroupName(groups []*models.Group) string {
	if len(groups) == 0 {
		return ""
	}
	return groups[0].Name
}
