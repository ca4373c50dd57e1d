package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const (
	shortIDLen = 8
	mask       = "••••••••"
)

var (
	bold    = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint, color.Italic)
	star    = color.New(color.FgHiYellow)
	success = color.New(color.FgGreen)
)

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func censor(s string, on bool) string {
	if !on || s == "" {
		return s
	}
	r := []rune(s)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}

func stateLabel(c *models.Credential) string {
	var parts []string
	if c.IsFavorite {
		parts = append(parts, star.Sprint("★"))
	}
	switch c.State() {
	case models.StateArchived:
		parts = append(parts, "archived")
	case models.StateTrashed:
		parts = append(parts, "trashed")
	}
	return strings.Join(parts, " ")
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// printCredentials writes creds as a table. Account data is masked when the
// user asked for it.
func printCredentials(w io.Writer, title string, snap *models.Snapshot, creds []*models.Credential) {
	_, _ = bold.Fprintf(w, "%s", title)
	_, _ = faint.Fprintf(w, " - %d\n", len(creds))

	if len(creds) == 0 {
		_, _ = faint.Fprint(w, " none\n\n")
		return
	}

	hide := snap.Settings.CensorAccountData

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow("ID", "NAME", "GROUP", "USERNAME", "EMAIL", "WEBSITE", "")
	for _, c := range creds {
		group := ""
		if g := snap.Owner(c); g != nil {
			group = g.Name
		}
		tbl.AddRow(shortID(c.ID), c.Name, group, censor(c.Username, hide), censor(c.Email, hide), c.Website, stateLabel(c))
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)
}

func printGroups(w io.Writer, snap *models.Snapshot) {
	_, _ = bold.Fprintln(w, "Groups")
	if len(snap.Groups) == 0 {
		_, _ = faint.Fprint(w, " none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("ID", "NAME", "ICON", "COLOR", "ACTIVE", "TOTAL")
	for _, g := range snap.Groups {
		active := 0
		for _, c := range g.Accounts {
			if c.State() == models.StateActive {
				active++
			}
		}
		tbl.AddRow(shortID(g.ID), g.Name, g.Icon, g.ColorVariant, active, len(g.Accounts))
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)
}

func printCredential(w io.Writer, snap *models.Snapshot, c *models.Credential, reveal bool) {
	st := snap.Settings
	hideData := st.CensorAccountData && !reveal
	password := c.Password
	if st.CensorPassword && !reveal && password != "" {
		password = mask
	}

	group := ""
	if g := snap.Owner(c); g != nil {
		group = g.Name
	}

	_, _ = bold.Fprintln(w, c.Name)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.AddRow("ID:", c.ID)
	tbl.AddRow("Group:", group)
	tbl.AddRow("Username:", censor(c.Username, hideData))
	tbl.AddRow("Email:", censor(c.Email, hideData))
	tbl.AddRow("Password:", password)
	tbl.AddRow("Website:", c.Website)
	tbl.AddRow("Notes:", c.Notes)
	tbl.AddRow("State:", string(c.State()))
	tbl.AddRow("Favorite:", c.IsFavorite)
	tbl.AddRow("Created:", formatDate(&c.CreatedAt))
	tbl.AddRow("Modified:", formatDate(&c.LastModified))
	if c.ArchivedDate != nil {
		tbl.AddRow("Archived:", formatDate(c.ArchivedDate))
	}
	if c.TrashedDate != nil {
		tbl.AddRow("Trashed:", formatDate(c.TrashedDate))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printSettings(w io.Writer, st models.Settings, th models.Theme, path string, encrypted bool, stats models.Stats) {
	_, _ = bold.Fprintln(w, "Settings")

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, k := range settingKeys {
		tbl.AddRow(k.name, k.get(&st), faint.Sprint(k.help))
	}
	tbl.AddRow("theme", th.CurrentTheme, faint.Sprint("Light or Dark"))
	tbl.AddRow("data path", path, "")
	tbl.AddRow("encryption", encrypted, "")
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "Contents")
	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("groups", stats.Groups)
	tbl.AddRow("credentials", stats.Total)
	tbl.AddRow("active", stats.Active)
	tbl.AddRow("favorites", stats.Favorites)
	tbl.AddRow("archived", stats.Archived)
	tbl.AddRow("trashed", stats.Trashed)
	_, _ = fmt.Fprintln(w, tbl)
}
