package models

const (
	ThemeLight = "Light"
	ThemeDark  = "Dark"

	DefaultTrashRetentionDays = 30
)

// Settings holds user preferences persisted inside the snapshot.
//
// CustomDataPath mirrors the bootstrap pointer kept next to the default data
// file; the pointer file is authoritative.
type Settings struct {
	CensorAccountData              bool    `json:"censorAccountData"`
	CensorPassword                 bool    `json:"censorPassword"`
	EnableEncryption               bool    `json:"enableEncryption"`
	EnableLocalSearch              bool    `json:"enableLocalSearch"`
	EnableApplicationNotifications bool    `json:"enableApplicationNotifications"`
	ConfirmAccountDelete           bool    `json:"confirmAccountDelete"`
	ConfirmGroupDelete             bool    `json:"confirmGroupDelete"`
	ConfirmArchiveAccount          bool    `json:"confirmArchiveAccount"`
	EnableTrash                    bool    `json:"enableTrash"`
	EnableArchive                  bool    `json:"enableArchive"`
	TrashRetentionDays             int     `json:"trashRetentionDays" validate:"gt=0"`
	AutoEmptyTrash                 bool    `json:"autoEmptyTrash"`
	ShowFavoritesGroup             bool    `json:"showFavoritesGroup"`
	CustomDataPath                 *string `json:"customDataPath"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		CensorPassword:                 true,
		EnableApplicationNotifications: true,
		ConfirmAccountDelete:           true,
		ConfirmGroupDelete:             true,
		ConfirmArchiveAccount:          true,
		EnableTrash:                    true,
		EnableArchive:                  true,
		TrashRetentionDays:             DefaultTrashRetentionDays,
		ShowFavoritesGroup:             true,
	}
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	cp := *s
	if s.CustomDataPath != nil {
		p := *s.CustomDataPath
		cp.CustomDataPath = &p
	}
	return &cp
}

// Theme holds the selected color theme.
type Theme struct {
	CurrentTheme string `json:"currentTheme" validate:"oneof=Light Dark"`
}

// DefaultTheme returns the light theme.
func DefaultTheme() Theme {
	return Theme{CurrentTheme: ThemeLight}
}
