package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
)

// Envelope is the on-disk wrapper of an encrypted snapshot.
type Envelope struct {
	Data    string          `json:"data"`
	Version json.RawMessage `json:"version"`
}

// snapshotKeys are top-level keys that only a plaintext snapshot carries.
var snapshotKeys = []string{"groups", "settings", "theme", "createdat", "lastbackup"}

// DetectEncrypted reports whether raw has the envelope shape.
func DetectEncrypted(raw []byte) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return false
	}

	keys := make(map[string]struct{}, len(top))
	for k := range top {
		keys[strings.ToLower(k)] = struct{}{}
	}

	for _, k := range snapshotKeys {
		if _, ok := keys[k]; ok {
			return false
		}
	}

	_, hasData := keys["data"]
	_, hasVersion := keys["version"]
	return hasData && hasVersion
}

// Encrypt serializes s and seals it under passphrase.
func Encrypt(s *models.Snapshot, passphrase []byte) ([]byte, error) {
	plain, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	defer common.WipeByteArray(plain)

	sealed, err := cryptox.Seal(plain, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}

	env := struct {
		Data    string `json:"data"`
		Version int    `json:"version"`
	}{
		Data:    base64.StdEncoding.EncodeToString(sealed),
		Version: common.EnvelopeVersion,
	}

	return json.MarshalIndent(env, "", "  ")
}

// Decrypt opens an envelope and decodes the snapshot inside.
//
// Input that is not an envelope fails with common.ErrNotEncrypted. A wrong
// passphrase or damaged ciphertext fails with common.ErrEncryption.
func Decrypt(raw []byte, passphrase []byte, now time.Time) (*models.Snapshot, error) {
	if !DetectEncrypted(raw) {
		return nil, common.ErrNotEncrypted
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: envelope: %w", common.ErrFormat, err)
	}

	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope data: %w", common.ErrEncryption, err)
	}

	plain, err := cryptox.Open(sealed, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEncryption, err)
	}
	defer common.WipeByteArray(plain)

	return DecodePlain(plain, now)
}

// DecodePlain parses a plaintext snapshot on top of defaults and normalizes
// it. Any parse failure is reported as common.ErrFormat, and so is a document
// that is not a snapshot at all (no groups key or no version).
func DecodePlain(raw []byte, now time.Time) (*models.Snapshot, error) {
	if err := checkShape(raw); err != nil {
		return nil, err
	}

	s := models.NewSnapshot(now)

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrFormat, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", common.ErrFormat)
	}

	if err := s.Normalize(); err != nil {
		if errors.Is(err, common.ErrFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrFormat, err)
	}

	return s, nil
}

// checkShape rejects documents that would otherwise decode into an empty
// snapshot made only of defaults.
func checkShape(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return fmt.Errorf("%w: %w", common.ErrFormat, err)
	}
	if top == nil {
		return fmt.Errorf("%w: document is not an object", common.ErrFormat)
	}

	var groups, version json.RawMessage
	for k, v := range top {
		switch strings.ToLower(k) {
		case "groups":
			groups = v
		case "version":
			version = v
		}
	}
	if groups == nil {
		return fmt.Errorf("%w: missing groups", common.ErrFormat)
	}

	var ver string
	if err := json.Unmarshal(version, &ver); err != nil || strings.TrimSpace(ver) == "" {
		return fmt.Errorf("%w: missing version", common.ErrFormat)
	}
	return nil
}

// EncodePlain renders s as indented JSON.
func EncodePlain(s *models.Snapshot) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}
