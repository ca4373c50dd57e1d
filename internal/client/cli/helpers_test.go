package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/stretchr/testify/require"
)

// capturePrintln replaces printlnFn and returns a function reporting what
// was printed so far.
func capturePrintln(t *testing.T) func() string {
	t.Helper()
	var (
		mu  sync.Mutex
		buf bytes.Buffer
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintln(&buf, a...)
	}
	t.Cleanup(func() { printlnFn = orig })

	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return buf.String()
	}
}

// stubPasswords makes getPassword return pws in order and fail afterwards.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if i >= len(pws) {
			return nil, io.EOF
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func readerFromLines(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func newTestApp(t *testing.T, dir string, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = dir

	out := &bytes.Buffer{}
	return NewApp(cfg, logging.Nop(), readerFromLines(lines...), out), out
}

func snapshotOf(t *testing.T, a *App) *models.Snapshot {
	t.Helper()
	snap, err := a.lifecycle.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}
