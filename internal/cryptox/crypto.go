// Package cryptox implements passphrase based sealing of byte payloads with
// argon2id key derivation and AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize  = 16
	NonceSize = 12
	KeySize   = 32
	tagSize   = 16
)

// ErrShortPayload is returned by Open when the sealed payload is too small to
// contain a salt, nonce and authentication tag.
var ErrShortPayload = errors.New("sealed payload too short")

// DeriveMasterKey stretches a passphrase into a 256-bit key using argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with a key derived from passphrase.
//
// A fresh random salt and nonce are generated for each call. The result is
// laid out as
//
//	salt(16) | nonce(12) | ciphertext | tag(16)
//
// so Open needs nothing but the passphrase to reverse it.
//
// Example:
//
//	sealed, err := Seal([]byte(`{"groups":[]}`), []byte("correct horse"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	plain, err := Open(sealed, []byte("correct horse"))
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(SaltSize)
	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	out := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+tagSize)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong passphrase and a tampered payload are
// indistinguishable and both surface as the AES-GCM authentication error.
func Open(sealed, passphrase []byte) ([]byte, error) {
	if len(sealed) < SaltSize+NonceSize+tagSize {
		return nil, ErrShortPayload
	}

	salt := sealed[:SaltSize]
	nonce := sealed[SaltSize : SaltSize+NonceSize]
	ciphertext := sealed[SaltSize+NonceSize:]

	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
