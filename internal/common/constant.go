package common

const (
	// AppName is used for the per-user configuration directory.
	AppName = "PassVault"

	// DataVersion is written into every saved snapshot.
	DataVersion = "2.2.0"

	DataFileName      = "accounts.json"
	BackupExtension   = ".backup"
	BootstrapFileName = "datapath.json"

	// EnvelopeVersion is the format version of encrypted envelopes.
	EnvelopeVersion = 1
)
