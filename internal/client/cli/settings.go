package cli

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
)

type settingKey struct {
	name string
	help string
	get  func(st *models.Settings) any
	set  func(ctx context.Context, a *App, value string) error
}

func boolSetting(name, help string, field func(st *models.Settings) *bool) settingKey {
	return settingKey{
		name: name,
		help: help,
		get:  func(st *models.Settings) any { return *field(st) },
		set: func(ctx context.Context, a *App, value string) error {
			v, err := parseBool(value)
			if err != nil {
				return err
			}
			return a.settings.Update(ctx, func(st *models.Settings) { *field(st) = v })
		},
	}
}

var settingKeys = []settingKey{
	boolSetting("censor-password", "mask passwords in show",
		func(st *models.Settings) *bool { return &st.CensorPassword }),
	boolSetting("censor-data", "mask usernames and emails",
		func(st *models.Settings) *bool { return &st.CensorAccountData }),
	boolSetting("local-search", "search inside the current list",
		func(st *models.Settings) *bool { return &st.EnableLocalSearch }),
	boolSetting("notifications", "show application notifications",
		func(st *models.Settings) *bool { return &st.EnableApplicationNotifications }),
	boolSetting("confirm-delete", "confirm before deleting a credential",
		func(st *models.Settings) *bool { return &st.ConfirmAccountDelete }),
	boolSetting("confirm-group-delete", "confirm before deleting a group",
		func(st *models.Settings) *bool { return &st.ConfirmGroupDelete }),
	boolSetting("confirm-archive", "confirm before archiving",
		func(st *models.Settings) *bool { return &st.ConfirmArchiveAccount }),
	boolSetting("favorites-group", "show the favorites view",
		func(st *models.Settings) *bool { return &st.ShowFavoritesGroup }),
	{
		name: "trash",
		help: "keep deleted credentials in the trash",
		get:  func(st *models.Settings) any { return st.EnableTrash },
		set: func(ctx context.Context, a *App, value string) error {
			v, err := parseBool(value)
			if err != nil {
				return err
			}
			return a.settings.SetEnableTrash(ctx, v, a.migrationResolver())
		},
	},
	{
		name: "archive",
		help: "allow archiving credentials",
		get:  func(st *models.Settings) any { return st.EnableArchive },
		set: func(ctx context.Context, a *App, value string) error {
			v, err := parseBool(value)
			if err != nil {
				return err
			}
			return a.settings.SetEnableArchive(ctx, v, a.migrationResolver())
		},
	},
	{
		name: "auto-empty-trash",
		help: "remove trashed credentials after the retention period",
		get:  func(st *models.Settings) any { return st.AutoEmptyTrash },
		set: func(ctx context.Context, a *App, value string) error {
			v, err := parseBool(value)
			if err != nil {
				return err
			}
			if err := a.settings.SetAutoEmptyTrash(ctx, v); err != nil {
				return err
			}
			a.purgeExpired(ctx)
			return nil
		},
	},
	{
		name: "trash-retention-days",
		help: "days a credential stays in the trash",
		get:  func(st *models.Settings) any { return st.TrashRetentionDays },
		set: func(ctx context.Context, a *App, value string) error {
			days, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number of days", common.ErrValidation, value)
			}
			if err := a.settings.SetTrashRetentionDays(ctx, days); err != nil {
				return err
			}
			a.purgeExpired(ctx)
			return nil
		},
	},
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q is not on or off", common.ErrValidation, s)
	}
	return v, nil
}

func (a *App) showSettings(ctx context.Context, _ []string) error {
	st, err := a.settings.Settings(ctx)
	if err != nil {
		return err
	}
	th, err := a.settings.Theme(ctx)
	if err != nil {
		return err
	}
	snap, err := a.lifecycle.Snapshot(ctx)
	if err != nil {
		return err
	}
	printSettings(a.out, st, th, a.settings.DataPath(), a.gate.HasPassphrase(), snap.Stats())
	return nil
}

func (a *App) set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: set <key> <value>", common.ErrValidation)
	}
	key, value := strings.ToLower(args[0]), strings.Join(args[1:], " ")

	for _, k := range settingKeys {
		if k.name != key {
			continue
		}
		if err := k.set(ctx, a, value); err != nil {
			return err
		}
		_, _ = success.Fprintf(a.out, "%s = %s\n", k.name, value)
		return nil
	}
	return fmt.Errorf("%w: unknown setting %q, see 'settings'", common.ErrValidation, key)
}

func (a *App) resetSettings(ctx context.Context, _ []string) error {
	if !confirm(a.reader, "Restore default settings and theme?", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.settings.ResetToDefaults(ctx); err != nil {
		return err
	}
	_, _ = success.Fprintln(a.out, "Settings restored to defaults")
	return nil
}

func (a *App) theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		th, err := a.settings.Theme(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Theme:", th.CurrentTheme)
		return nil
	}

	name := strings.ToLower(args[0])
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if err := a.settings.SetTheme(ctx, name); err != nil {
		return err
	}
	_, _ = success.Fprintln(a.out, "Theme:", name)
	return nil
}

func (a *App) encrypt(ctx context.Context, _ []string) error {
	if a.gate.HasPassphrase() {
		fmt.Fprintln(a.out, "The data file is already encrypted. Enter a new passphrase to change it.")
	}

	first, err := getPassword(a.out, "New passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(first)

	second, err := getPassword(a.out, "Repeat passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		return fmt.Errorf("%w: passphrases do not match", common.ErrValidation)
	}

	if err := a.settings.EnableEncryption(ctx, first); err != nil {
		return err
	}
	_, _ = success.Fprintln(a.out, "The data file is now encrypted. Keep the passphrase safe: it cannot be recovered.")
	return nil
}

func (a *App) decrypt(ctx context.Context, _ []string) error {
	if !a.gate.HasPassphrase() {
		fmt.Fprintln(a.out, "The data file is not encrypted.")
		return nil
	}
	if !confirm(a.reader, "Store the data file as plain, readable JSON?", a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.settings.DisableEncryption(ctx); err != nil {
		return err
	}
	_, _ = success.Fprintln(a.out, "Encryption turned off")
	return nil
}

func (a *App) path(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch sub {
	case "show":
		fmt.Fprintln(a.out, "Data path:", a.settings.DataPath())
		fmt.Fprintln(a.out, "File:     ", a.repo.Path())
		return nil

	case "set":
		p, err := a.argOrPrompt(args[1:], "New data file path")
		if err != nil {
			return err
		}
		abs, err := a.settings.SetCustomDataPath(ctx, p)
		if err != nil {
			return err
		}
		a.restartWatcher(ctx)
		_, _ = success.Fprintln(a.out, "Data file moved to", abs)
		return nil

	case "reset":
		if err := a.settings.ResetDataPath(ctx); err != nil {
			return err
		}
		a.restartWatcher(ctx)
		_, _ = success.Fprintln(a.out, "Using the default data file", a.repo.Path())
		return nil

	default:
		return fmt.Errorf("%w: usage: path [show|set <path>|reset]", common.ErrValidation)
	}
}
