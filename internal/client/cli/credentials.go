package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/services"
	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) list(ctx context.Context, args []string) error {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}

	view := strings.TrimSpace(strings.Join(args, " "))
	st := snap.Settings

	switch strings.ToLower(view) {
	case "", "active":
		printCredentials(a.out, "Active", snap, snap.Active())
	case "favorites", "fav":
		printCredentials(a.out, "Favorites", snap, snap.Favorites())
	case "archive", "archived":
		if !st.EnableArchive {
			_, _ = faint.Fprintln(a.out, "The archive is turned off.")
		}
		printCredentials(a.out, "Archive", snap, snap.Archived())
	case "trash", "trashed":
		if !st.EnableTrash {
			_, _ = faint.Fprintln(a.out, "The trash is turned off.")
		} else if st.AutoEmptyTrash {
			_, _ = faint.Fprintf(a.out, "Items are removed %d days after deletion.\n", st.TrashRetentionDays)
		}
		printCredentials(a.out, "Trash", snap, snap.Trashed())
	case "all":
		printCredentials(a.out, "All", snap, snap.All())
	default:
		g, err := findGroup(snap, view)
		if err != nil {
			return fmt.Errorf("unknown view or group %q: %w", view, err)
		}
		active := make([]*models.Credential, 0, len(g.Accounts))
		for _, c := range g.Accounts {
			if c.State() == models.StateActive {
				active = append(active, c)
			}
		}
		printCredentials(a.out, g.Name, snap, active)
	}
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	term, err := a.argOrPrompt(args, "Search for")
	if err != nil {
		return err
	}
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	printCredentials(a.out, fmt.Sprintf("Results for %q", term), snap, snap.Search(term))
	return nil
}

func (a *App) addCredential(ctx context.Context, args []string) error {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	group, err := a.pickGroup(ctx, snap, strings.Join(args, " "))
	if err != nil {
		return err
	}

	in, err := a.promptCredential(services.CredentialInput{})
	if err != nil {
		return err
	}

	c, err := a.lifecycle.AddCredential(ctx, group.ID, in)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Added %q (%s) to %s\n", c.Name, shortID(c.ID), group.Name)
	return nil
}

// promptCredential asks for every field, offering cur as the default.
func (a *App) promptCredential(cur services.CredentialInput) (services.CredentialInput, error) {
	var (
		in  services.CredentialInput
		err error
	)
	if in.Name, err = GetWithDefault(a.reader, "Name", cur.Name, a.out); err != nil {
		return in, err
	}
	if in.Username, err = GetWithDefault(a.reader, "Username", cur.Username, a.out); err != nil {
		return in, err
	}
	if in.Email, err = GetWithDefault(a.reader, "Email", cur.Email, a.out); err != nil {
		return in, err
	}

	in.Password = cur.Password
	if cur.Password == "" || confirm(a.reader, "Change password?", a.out) {
		pw, err := getPassword(a.out, "Password (empty for none)")
		if err != nil {
			return in, err
		}
		in.Password = string(pw)
		common.WipeByteArray(pw)
	}

	if in.Website, err = GetWithDefault(a.reader, "Website", cur.Website, a.out); err != nil {
		return in, err
	}

	in.Notes = cur.Notes
	if cur.Notes == "" || confirm(a.reader, "Change notes?", a.out) {
		if in.Notes, err = GetMultiline(a.reader, "Notes", a.out); err != nil {
			return in, err
		}
	}
	return in, nil
}

// credential resolves the reference in args against the current snapshot.
func (a *App) credential(ctx context.Context, args []string) (*models.Snapshot, *models.Credential, error) {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	ref, err := a.argOrPrompt(args, "Credential (id or name)")
	if err != nil {
		return nil, nil, err
	}
	c, err := findCredential(snap, ref)
	if err != nil {
		return nil, nil, err
	}
	return snap, c, nil
}

func (a *App) show(ctx context.Context, args []string) error {
	args, reveal := splitFlag(args, "-r", "--reveal")
	snap, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}
	printCredential(a.out, snap, c, reveal)
	return nil
}

func (a *App) editCredential(ctx context.Context, args []string) error {
	_, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}

	in, err := a.promptCredential(services.CredentialInput{
		Name:     c.Name,
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
		Website:  c.Website,
		Notes:    c.Notes,
	})
	if err != nil {
		return err
	}

	updated, err := a.lifecycle.UpdateCredential(ctx, c.ID, in)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Updated %q\n", updated.Name)
	return nil
}

func (a *App) toggleFavorite(ctx context.Context, args []string) error {
	_, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}
	fav, err := a.lifecycle.ToggleFavorite(ctx, c.ID)
	if err != nil {
		return err
	}
	if fav {
		_, _ = success.Fprintf(a.out, "%q added to favorites\n", c.Name)
	} else {
		_, _ = success.Fprintf(a.out, "%q removed from favorites\n", c.Name)
	}
	return nil
}

func (a *App) move(ctx context.Context, args []string) error {
	snap, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}
	ref, err := getSimpleText(a.reader, "Target group", a.out)
	if err != nil {
		return err
	}
	g, err := findGroup(snap, ref)
	if err != nil {
		return err
	}
	if err := a.lifecycle.MoveCredential(ctx, c.ID, g.ID); err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Moved %q to %s\n", c.Name, g.Name)
	return nil
}

func (a *App) archive(ctx context.Context, args []string) error {
	snap, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}
	if snap.Settings.EnableArchive && snap.Settings.ConfirmArchiveAccount {
		if !confirm(a.reader, fmt.Sprintf("Archive %q?", c.Name), a.out) {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}
	if err := a.lifecycle.Archive(ctx, c.ID); err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Archived %q\n", c.Name)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	snap, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}

	if snap.Settings.ConfirmAccountDelete {
		q := fmt.Sprintf("Delete %q permanently? This cannot be undone.", c.Name)
		if snap.Settings.EnableTrash && c.State() != models.StateTrashed {
			q = fmt.Sprintf("Move %q to the trash?", c.Name)
		}
		if !confirm(a.reader, q, a.out) {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	outcome, err := a.lifecycle.Delete(ctx, c.ID)
	if err != nil {
		return err
	}
	switch outcome {
	case services.DeleteTrashed:
		_, _ = success.Fprintf(a.out, "Moved %q to the trash\n", c.Name)
	default:
		_, _ = success.Fprintf(a.out, "Deleted %q\n", c.Name)
	}
	return nil
}

func (a *App) restore(ctx context.Context, args []string) error {
	_, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}
	g, err := a.lifecycle.Restore(ctx, c.ID)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Restored %q to %s\n", c.Name, g.Name)
	return nil
}

func (a *App) purge(ctx context.Context, args []string) error {
	_, c, err := a.credential(ctx, args)
	if err != nil {
		return err
	}
	if !confirm(a.reader, fmt.Sprintf("Delete %q permanently? This cannot be undone.", c.Name), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.lifecycle.DeletePermanently(ctx, c.ID); err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Deleted %q\n", c.Name)
	return nil
}

func (a *App) emptyTrash(ctx context.Context, _ []string) error {
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	n := len(snap.Trashed())
	if n == 0 {
		fmt.Fprintln(a.out, "The trash is empty.")
		return nil
	}
	if !confirm(a.reader, fmt.Sprintf("Permanently delete %d credential(s) in the trash?", n), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	removed, err := a.lifecycle.EmptyTrash(ctx)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Removed %d credential(s)\n", removed)
	return nil
}
