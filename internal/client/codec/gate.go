package codec

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
)

// Gate holds the session passphrase and picks the encoding for every read
// and write.
type Gate struct {
	mu         sync.Mutex
	passphrase []byte
	ready      chan struct{}
	readyOnce  sync.Once
	now        func() time.Time
}

func NewGate() *Gate {
	return &Gate{ready: make(chan struct{}), now: time.Now}
}

// SetPassphrase stores a copy of p and releases everyone waiting on Ready.
func (g *Gate) SetPassphrase(p []byte) {
	g.mu.Lock()
	common.WipeByteArray(g.passphrase)
	g.passphrase = append([]byte(nil), p...)
	g.mu.Unlock()

	g.readyOnce.Do(func() { close(g.ready) })
}

// ClearPassphrase wipes the stored passphrase. Subsequent saves are written
// as plaintext.
func (g *Gate) ClearPassphrase() {
	g.mu.Lock()
	defer g.mu.Unlock()
	common.WipeByteArray(g.passphrase)
	g.passphrase = nil
}

// Passphrase returns a copy of the stored passphrase, nil when none is held.
// The caller owns the copy and should wipe it.
func (g *Gate) Passphrase() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.passphrase) == 0 {
		return nil
	}
	return append([]byte(nil), g.passphrase...)
}

func (g *Gate) HasPassphrase() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.passphrase) > 0
}

// Ready is closed the first time a passphrase is supplied.
func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

// Decode reads raw in whichever shape it has.
func (g *Gate) Decode(raw []byte) (*models.Snapshot, error) {
	if !DetectEncrypted(raw) {
		return DecodePlain(raw, g.now())
	}

	g.mu.Lock()
	p := append([]byte(nil), g.passphrase...)
	g.mu.Unlock()
	defer common.WipeByteArray(p)

	if len(p) == 0 {
		return nil, common.ErrEncryptionPending
	}
	return Decrypt(raw, p, g.now())
}

// Encode writes an envelope when a passphrase is held, plaintext otherwise.
func (g *Gate) Encode(s *models.Snapshot) ([]byte, error) {
	g.mu.Lock()
	p := append([]byte(nil), g.passphrase...)
	g.mu.Unlock()
	defer common.WipeByteArray(p)

	if len(p) == 0 {
		return EncodePlain(s)
	}
	return Encrypt(s, p)
}
