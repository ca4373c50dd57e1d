package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/snapshot"
)

var t0 = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

// memRepo is an in-memory snapshot.Repository.
type memRepo struct {
	snap    *models.Snapshot
	getErr  error
	saveErr error
	saves   int

	files   map[string]*models.Snapshot
	exports []string
	backups []string
}

func newMemRepo(s *models.Snapshot) *memRepo {
	if s == nil {
		s = models.NewSnapshot(t0)
	}
	return &memRepo{snap: s}
}

func (m *memRepo) Get(ctx context.Context) (*models.Snapshot, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.snap, nil
}

func (m *memRepo) Save(ctx context.Context, s *models.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snap = s
	return nil
}

func (m *memRepo) InvalidateCache() {}

func (m *memRepo) Reload(ctx context.Context) (*models.Snapshot, error) { return m.Get(ctx) }

func (m *memRepo) Unlock(ctx context.Context, p []byte) (*models.Snapshot, error) { return m.Get(ctx) }

func (m *memRepo) Import(ctx context.Context, path string, p []byte) (*models.Snapshot, error) {
	s, ok := m.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return s.Clone(), nil
}

func (m *memRepo) Export(ctx context.Context, path string) error {
	m.exports = append(m.exports, path)
	return nil
}

func (m *memRepo) Backup(ctx context.Context, dest string) error {
	m.backups = append(m.backups, dest)
	return nil
}

func (m *memRepo) Subscribe(fn snapshot.Listener) func() { return func() {} }

func (m *memRepo) Path() string { return "mem" }

func (m *memRepo) Watch(ctx context.Context, d time.Duration) (<-chan snapshot.Event, error) {
	return nil, errors.New("not supported")
}

type fakeGate struct {
	pass []byte
}

func (g *fakeGate) SetPassphrase(p []byte) { g.pass = append([]byte(nil), p...) }
func (g *fakeGate) ClearPassphrase()       { g.pass = nil }
func (g *fakeGate) HasPassphrase() bool    { return len(g.pass) > 0 }

func (g *fakeGate) Passphrase() []byte {
	if len(g.pass) == 0 {
		return nil
	}
	return append([]byte(nil), g.pass...)
}

type fakePaths struct {
	custom  string
	setErr  error
	setArgs []string
}

func (p *fakePaths) SetCustomPath(ctx context.Context, path string) (string, error) {
	p.setArgs = append(p.setArgs, path)
	if p.setErr != nil {
		return "", p.setErr
	}
	p.custom = path
	if path == "" {
		return "/default/accounts.json", nil
	}
	return path, nil
}

func (p *fakePaths) ResetToDefault(ctx context.Context) error {
	p.custom = ""
	return nil
}

func (p *fakePaths) CustomPath() (string, bool) { return p.custom, p.custom != "" }

func (p *fakePaths) DisplayPath() string {
	if p.custom == "" {
		return "Default"
	}
	return p.custom
}

// fixture builds a snapshot with two groups:
//
//	Work: mail (active, favorite), forum (trashed), bank (archived)
//	Home: empty
type fixture struct {
	snap              *models.Snapshot
	work, home        *models.Group
	mail, forum, bank *models.Credential
}

func newFixture() fixture {
	s := models.NewSnapshot(t0)
	work := models.NewGroup("Work", t0)
	home := models.NewGroup("Home", t0)

	mail := models.NewCredential("Mail", t0)
	mail.IsFavorite = true
	forum := models.NewCredential("Forum", t0)
	forum.MarkTrashed(work.ID, t0)
	bank := models.NewCredential("Bank", t0)
	bank.MarkArchived(work.ID, t0)

	work.Add(mail, t0)
	work.Add(forum, t0)
	work.Add(bank, t0)
	s.Groups = append(s.Groups, work, home)

	return fixture{snap: s, work: work, home: home, mail: mail, forum: forum, bank: bank}
}

func owners(s *models.Snapshot, id string) int {
	n := 0
	for _, g := range s.Groups {
		for _, c := range g.Accounts {
			if c.ID == id {
				n++
			}
		}
	}
	return n
}
