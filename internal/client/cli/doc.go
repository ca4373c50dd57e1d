// Package cli provides the interactive PassVault command-line client.
//
// It wires runtime configuration, the data file repository and the vault
// services into a cobra command tree. Running the binary without a
// subcommand opens the vault, asking for the passphrase when the data file
// is encrypted, and starts a REPL. A background watcher reloads the vault
// when the data file is changed by another program.
//
// Key features:
//   - Groups: list, add, rename, delete
//   - Credentials: add, show, edit, move, favorite, search
//   - Lifecycle: archive, trash, restore, permanent delete, empty trash
//   - Settings, theme, data path and encryption
//   - Import, export and backup of the whole vault
//
// See New for the command tree and runREPL for the interactive loop.
package cli
