package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/common"
)

func (a *App) export(ctx context.Context, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	out, err := a.transfer.Export(ctx, path)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Exported to %s%s\n", out, a.modeSuffix())
	return nil
}

func (a *App) backup(ctx context.Context, args []string) error {
	dest := ""
	if len(args) > 0 {
		dest = args[0]
	}
	out, err := a.transfer.Backup(ctx, dest)
	if err != nil {
		return err
	}
	_, _ = success.Fprintf(a.out, "Backup written to %s%s\n", out, a.modeSuffix())
	return nil
}

func (a *App) modeSuffix() string {
	if a.gate.HasPassphrase() {
		return " (encrypted)"
	}
	return ""
}

func (a *App) importData(ctx context.Context, args []string) error {
	args, replace := splitFlag(args, "--replace", "-r")
	path, err := a.argOrPrompt(args, "File to import")
	if err != nil {
		return err
	}
	if replace && !confirm(a.reader, fmt.Sprintf("Replace all current data with %s?", path), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	return a.importFile(ctx, path, replace)
}

// importFile asks for the file's own passphrase when the session one does
// not open it.
func (a *App) importFile(ctx context.Context, path string, replace bool) error {
	res, err := a.transfer.Import(ctx, path, nil, replace)
	if errors.Is(err, common.ErrEncryptionPending) || errors.Is(err, common.ErrEncryption) {
		pass, perr := getPassword(a.out, "Passphrase for "+path)
		if perr != nil {
			return perr
		}
		res, err = a.transfer.Import(ctx, path, pass, replace)
		common.WipeByteArray(pass)
	}
	if err != nil {
		return err
	}

	if res.Replaced {
		_, _ = success.Fprintf(a.out, "Replaced data with %d group(s) and %d credential(s) from %s\n",
			res.GroupsAdded, res.CredentialsAdded, path)
		return nil
	}
	_, _ = success.Fprintf(a.out, "Imported %d credential(s): %d new group(s), %d merged, %d skipped as duplicates\n",
		res.CredentialsAdded, res.GroupsAdded, res.GroupsMerged, res.Skipped)
	return nil
}
