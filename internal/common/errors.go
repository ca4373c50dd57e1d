// Package common defines shared constants, helpers and sentinel errors used
// across PassVault components. Callers should use errors.Is to match these
// values; most of them are returned wrapped with additional context.
package common

import "errors"

var (
	// Storage-level errors.
	ErrStorage     = errors.New("storage error")
	ErrInvalidPath = errors.New("invalid data path")

	// Document errors.
	ErrFormat = errors.New("malformed data file")

	// Encryption errors.
	ErrEncryptionPending = errors.New("encryption passphrase not yet supplied")
	ErrEncryption        = errors.New("decryption failed")
	ErrNotEncrypted      = errors.New("data is not encrypted")

	// Domain errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrValidation        = errors.New("validation error")
	ErrFeatureDisabled   = errors.New("feature disabled")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrMigrationAborted  = errors.New("migration aborted")
)
