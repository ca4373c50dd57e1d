package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	calls []string
}

func (r *recorder) cmd(name string, fail bool, aliases ...string) command {
	return command{
		name:    name,
		aliases: aliases,
		usage:   name,
		help:    "test " + name,
		run: func(_ context.Context, args []string) error {
			r.calls = append(r.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
			if fail {
				return errors.New("boom")
			}
			return nil
		},
	}
}

func TestRunREPL_Dispatch(t *testing.T) {
	printed := capturePrintln(t)

	rec := &recorder{}
	cmds := []command{rec.cmd("list", false, "l"), rec.cmd("show", false), rec.cmd("fail", true)}

	input := strings.NewReader(strings.Join([]string{
		"help",
		"list",
		"",
		"L trash",
		"show  Mail   Box",
		"fail",
		"foobar",
		"exit",
		"list",
	}, "\n"))

	runREPL(context.Background(), cmds, func() string { return "(Default)" }, bufio.NewReader(input))

	assert.Equal(t, []string{"list", "list trash", "show Mail Box", "fail"}, rec.calls)

	out := printed()
	assert.Contains(t, out, "pv (Default)> ")
	assert.Contains(t, out, "test show")
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	capturePrintln(t)

	rec := &recorder{}
	runREPL(context.Background(), []command{rec.cmd("list", false)}, func() string { return "" },
		bufio.NewReader(strings.NewReader("list all")))

	assert.Equal(t, []string{"list all"}, rec.calls)
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	runREPL(ctx, []command{rec.cmd("list", false)}, func() string { return "" },
		bufio.NewReader(strings.NewReader("list\nlist\n")))

	assert.Empty(t, rec.calls)
}
