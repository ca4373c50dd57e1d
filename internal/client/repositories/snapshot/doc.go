// Package snapshot provides the repository for the vault document.
//
// # Overview
//
// The whole vault is one JSON document (models.Snapshot). The repository
// loads it once, hands out the cached instance and writes it back wholesale.
// The file location comes from a PathSource and is looked up again on every
// read and write, so a relocation takes effect without restarting.
//
// # Encryption
//
// Bytes pass through a Codec in both directions. While the file is an
// envelope and no passphrase has been supplied, Get fails with
// common.ErrEncryptionPending and Save refuses to replace the envelope with
// plaintext. Unlock supplies the passphrase and reloads.
//
// # Notifications
//
// Subscribers are called once after every successful Save, Reload and
// Unlock, outside the repository lock. Watch reports writes made by other
// processes; callers usually answer them with Reload.
//
// Typical Usage
//
//	repo := snapshot.NewFileRepository(resolver, backend, gate, log)
//	s, err := repo.Get(ctx)
//	if errors.Is(err, common.ErrEncryptionPending) {
//	    s, err = repo.Unlock(ctx, passphrase)
//	}
//	s.Groups = append(s.Groups, models.NewGroup("Work", time.Now()))
//	err = repo.Save(ctx, s)
package snapshot
