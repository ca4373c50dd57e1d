package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/services"
)

func (a *App) listGroups(ctx context.Context, _ []string) error {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	printGroups(a.out, snap)
	return nil
}

func (a *App) addGroup(ctx context.Context, args []string) error {
	name, err := a.argOrPrompt(args, "Group name")
	if err != nil {
		return err
	}
	g, err := a.lifecycle.CreateGroup(ctx, services.GroupInput{Name: name})
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Created group %q (%s)\n", g.Name, shortID(g.ID))
	return nil
}

func (a *App) editGroup(ctx context.Context, args []string) error {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	ref, err := a.argOrPrompt(args, "Group")
	if err != nil {
		return err
	}
	g, err := findGroup(snap, ref)
	if err != nil {
		return err
	}

	var in services.GroupInput
	if in.Name, err = GetWithDefault(a.reader, "Name", g.Name, a.out); err != nil {
		return err
	}
	if in.Icon, err = GetWithDefault(a.reader, "Icon", g.Icon, a.out); err != nil {
		return err
	}
	if in.ColorVariant, err = GetWithDefault(a.reader, "Color", g.ColorVariant, a.out); err != nil {
		return err
	}

	updated, err := a.lifecycle.UpdateGroup(ctx, g.ID, in)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Updated group %q\n", updated.Name)
	return nil
}

func (a *App) deleteGroup(ctx context.Context, args []string) error {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	ref, err := a.argOrPrompt(args, "Group")
	if err != nil {
		return err
	}
	g, err := findGroup(snap, ref)
	if err != nil {
		return err
	}

	if snap.Settings.ConfirmGroupDelete {
		q := fmt.Sprintf("Delete group %q and its %d credential(s)?", g.Name, len(g.Accounts))
		if !confirm(a.reader, q, a.out) {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	if err := a.lifecycle.DeleteGroup(ctx, g.ID); err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Deleted group %q\n", g.Name)
	return nil
}

// pickGroup resolves ref, or asks for a group when ref is empty. A vault
// without groups gets the default one.
func (a *App) pickGroup(ctx context.Context, snap *models.Snapshot, ref string) (*models.Group, error) {
	if ref != "" {
		return findGroup(snap, ref)
	}

	switch len(snap.Groups) {
	case 0:
		return a.lifecycle.CreateGroup(ctx, services.GroupInput{Name: models.DefaultGroupName})
	case 1:
		return snap.Groups[0], nil
	}

	ref, err := GetWithDefault(a.reader, "Group", snap.Groups[0].Name, a.out)
	if err != nil {
		return nil, err
	}
	return findGroup(snap, ref)
}
