// Package codec turns snapshots into bytes and back.
//
// Files come in two shapes. A plaintext file is the indented JSON snapshot. An
// encrypted file is an envelope
//
//	{"data": "<base64 salt|nonce|ciphertext|tag>", "version": 1}
//
// The shape alone decides which one a file is: an object whose top-level keys
// include data and version and none of the snapshot's own keys is an envelope;
// anything carrying groups is plaintext. No settings flag is consulted, so a
// file written with encryption on still loads after the flag is lost.
//
// A Gate holds the passphrase for the session. Until one is supplied, decoding
// an envelope fails with common.ErrEncryptionPending, which callers treat as
// "wait and retry" rather than as corruption.
package codec
