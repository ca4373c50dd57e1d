package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gosuri/uitable"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	run     func(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from r, parses the first token as the command and
// dispatches to the matching entry of cmds with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Errors returned by handlers are printed as "Error: ..." and the loop keeps
// going.
func runREPL(ctx context.Context, cmds []command, statusFn func() string, r *bufio.Reader) {
	index := make(map[string]command, len(cmds))
	for _, c := range cmds {
		index[c.name] = c
		for _, a := range c.aliases {
			index[a] = c
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("pv %s> ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help", "?":
			printHelp(cmds)
			continue
		}

		c, ok := index[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func printHelp(cmds []command) {
	sorted := append([]command(nil), cmds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range sorted {
		tbl.AddRow(" "+c.usage, c.help)
	}
	tbl.AddRow(" exit | quit", "leave the program")

	printlnFn("Available commands:")
	printlnFn(tbl)
}
