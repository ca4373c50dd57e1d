package cli

import (
	"context"
	"strings"
)

// commands is the REPL command table. Handlers never overlap with each other
// or with a watcher reload.
func (a *App) commands() []command {
	cmds := []command{
		{name: "groups", usage: "groups", help: "list groups", run: a.listGroups},
		{name: "addgroup", usage: "addgroup [name]", help: "create a group", run: a.addGroup},
		{name: "rengroup", usage: "rengroup <group>", help: "rename a group or change its icon and color", run: a.editGroup},
		{name: "delgroup", usage: "delgroup <group>", help: "delete a group with all its credentials", run: a.deleteGroup},

		{name: "list", aliases: []string{"l", "ls"}, usage: "list [active|favorites|archive|trash|all|<group>]", help: "list credentials", run: a.list},
		{name: "search", aliases: []string{"find"}, usage: "search <term>", help: "search active credentials", run: a.search},
		{name: "add", usage: "add [group]", help: "add a credential", run: a.addCredential},
		{name: "show", usage: "show <credential> [-r]", help: "show a credential, -r reveals masked data", run: a.show},
		{name: "edit", usage: "edit <credential>", help: "edit a credential", run: a.editCredential},
		{name: "fav", usage: "fav <credential>", help: "toggle favorite", run: a.toggleFavorite},
		{name: "move", aliases: []string{"mv"}, usage: "move <credential>", help: "move a credential to another group", run: a.move},
		{name: "archive", usage: "archive <credential>", help: "archive a credential", run: a.archive},
		{name: "delete", aliases: []string{"rm"}, usage: "delete <credential>", help: "move to trash, or delete when the trash is off", run: a.delete},
		{name: "restore", usage: "restore <credential>", help: "restore an archived or trashed credential", run: a.restore},
		{name: "purge", usage: "purge <credential>", help: "permanently delete a credential", run: a.purge},
		{name: "emptytrash", usage: "emptytrash", help: "permanently delete everything in the trash", run: a.emptyTrash},

		{name: "settings", usage: "settings", help: "show settings and statistics", run: a.showSettings},
		{name: "set", usage: "set <key> <value>", help: "change a setting", run: a.set},
		{name: "resetsettings", usage: "resetsettings", help: "restore default settings and theme", run: a.resetSettings},
		{name: "theme", usage: "theme [Light|Dark]", help: "show or change the theme", run: a.theme},
		{name: "encrypt", usage: "encrypt", help: "encrypt the data file or change the passphrase", run: a.encrypt},
		{name: "decrypt", usage: "decrypt", help: "store the data file as plain JSON", run: a.decrypt},
		{name: "path", usage: "path [show|set <path>|reset]", help: "show or change the data file location", run: a.path},

		{name: "export", usage: "export [path]", help: "write the vault to a file", run: a.export},
		{name: "import", usage: "import <path> [--replace]", help: "merge or replace data from a file", run: a.importData},
		{name: "backup", usage: "backup [path]", help: "export and record the backup time", run: a.backup},
		{name: "reload", usage: "reload", help: "re-read the data file", run: a.reload},
	}
	for i := range cmds {
		cmds[i].run = a.serialized(cmds[i].run)
	}
	return cmds
}

// argOrPrompt joins args or asks for the value when there are none.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if v := strings.TrimSpace(strings.Join(args, " ")); v != "" {
		return v, nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// splitFlag removes flag from args and reports whether it was present.
func splitFlag(args []string, names ...string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	found := false
	for _, arg := range args {
		matched := false
		for _, n := range names {
			if arg == n {
				matched = true
				break
			}
		}
		if matched {
			found = true
			continue
		}
		rest = append(rest, arg)
	}
	return rest, found
}

func (a *App) reload(ctx context.Context, _ []string) error {
	if _, err := a.repo.Reload(ctx); err != nil {
		return err
	}
	a.purgeExpired(ctx)
	_, _ = success.Fprintln(a.out, "Reloaded", a.repo.Path())
	return nil
}
