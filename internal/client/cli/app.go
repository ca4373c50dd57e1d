package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/client/codec"
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/paths"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/snapshot"
	"github.com/dmitrijs2005/passvault/internal/client/services"
	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

const maxUnlockAttempts = 3

// App owns the one repository of the process and the services built on it.
type App struct {
	config *config.Config
	log    logging.Logger

	paths     *paths.Resolver
	gate      *codec.Gate
	repo      snapshot.Repository
	lifecycle services.LifecycleService
	settings  services.SettingsService
	transfer  services.TransferService

	reader *bufio.Reader
	out    io.Writer

	// opMu lets one command or one external reload touch the vault at a
	// time. Each of them is a full Get, Clone, Save cycle.
	opMu sync.Mutex

	watchMu     sync.Mutex
	stopWatcher context.CancelFunc
}

// NewApp wires the storage stack rooted at c.DataDir. Prompts read from in
// and everything user-facing is written to out.
func NewApp(c *config.Config, log logging.Logger, in io.Reader, out io.Writer) *App {
	backend := storage.NewFileBackend(log)
	resolver := paths.NewResolver(c.DataDir, backend, log)
	gate := codec.NewGate()
	repo := snapshot.NewFileRepository(resolver, backend, gate, log)

	return &App{
		config:    c,
		log:       log,
		paths:     resolver,
		gate:      gate,
		repo:      repo,
		lifecycle: services.NewLifecycleService(repo, log),
		settings:  services.NewSettingsService(repo, resolver, gate, log),
		transfer:  services.NewTransferService(repo, log),
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

// Open loads the data file, asking for the passphrase when it is encrypted,
// and drops trash that outlived its retention period.
func (a *App) Open(ctx context.Context) error {
	_, err := a.repo.Get(ctx)
	if errors.Is(err, common.ErrEncryptionPending) {
		err = a.unlock(ctx)
	}
	if err != nil {
		return err
	}

	a.purgeExpired(ctx)
	return nil
}

func (a *App) unlock(ctx context.Context) error {
	fmt.Fprintln(a.out, "The data file is encrypted.")
	for attempt := 1; attempt <= maxUnlockAttempts; attempt++ {
		pass, err := getPassword(a.out, "Passphrase")
		if err != nil {
			return err
		}
		_, err = a.repo.Unlock(ctx, pass)
		common.WipeByteArray(pass)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrEncryption) {
			return err
		}
		a.log.Warn(ctx, "unlock failed", "attempt", attempt)
		fmt.Fprintln(a.out, "Wrong passphrase.")
	}
	return fmt.Errorf("unlock: %w: too many attempts", common.ErrEncryption)
}

func (a *App) purgeExpired(ctx context.Context) {
	n, err := a.lifecycle.PurgeExpired(ctx)
	if err != nil {
		a.log.Warn(ctx, "purge expired trash", "err", err)
		return
	}
	if n > 0 {
		fmt.Fprintf(a.out, "Removed %d credential(s) from the trash after the retention period.\n", n)
	}
}

// Run opens the vault and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	if err := a.Open(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.startWatcher(ctx)
	defer a.stopWatching()

	printlnFn("Welcome to PassVault (type 'help' for commands)")
	runREPL(ctx, a.commands(), a.status, a.reader)
	return nil
}

func (a *App) status() string {
	s := a.settings.DataPath()
	if a.gate.HasPassphrase() {
		s += ", encrypted"
	}
	return fmt.Sprintf("(%s)", s)
}

// startWatcher reloads the vault whenever another program rewrites the data
// file. It replaces any watcher started before.
func (a *App) startWatcher(ctx context.Context) {
	a.stopWatching()

	wctx, cancel := context.WithCancel(ctx)
	events, err := a.repo.Watch(wctx, a.config.WatchDebounce)
	if err != nil {
		cancel()
		a.log.Warn(ctx, "watch data file", "err", err)
		return
	}

	a.watchMu.Lock()
	a.stopWatcher = cancel
	a.watchMu.Unlock()

	go func() {
		for ev := range events {
			a.externalChange(wctx, ev.Path)
		}
	}()
}

// externalChange reloads the vault after a foreign write. It waits for the
// command in progress, if any, to finish first.
func (a *App) externalChange(ctx context.Context, path string) {
	a.opMu.Lock()
	defer a.opMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	if _, err := a.repo.Reload(ctx); err != nil {
		a.log.Warn(ctx, "reload after external change", "path", path, "err", err)
		return
	}
	printlnFn("Data file changed on disk, reloaded.")
	a.purgeExpired(ctx)
}

// serialized runs fn under opMu.
func (a *App) serialized(fn func(ctx context.Context, args []string) error) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		a.opMu.Lock()
		defer a.opMu.Unlock()
		return fn(ctx, args)
	}
}

// restartWatcher follows the data file to its new location. It does
// nothing when no watcher is running.
func (a *App) restartWatcher(ctx context.Context) {
	a.watchMu.Lock()
	running := a.stopWatcher != nil
	a.watchMu.Unlock()
	if running {
		a.startWatcher(ctx)
	}
}

func (a *App) stopWatching() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.stopWatcher != nil {
		a.stopWatcher()
		a.stopWatcher = nil
	}
}
