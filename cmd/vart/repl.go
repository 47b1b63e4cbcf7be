package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Neumenon/vart/vart"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const banner = "vart " + version + " - type help for commands, quit to leave"

const shellHelp = `Commands:
  build TEMPLATE [ARGS...]
  get TEMPLATE READ_TEMPLATE [ARGS...]
  hash TEMPLATE [ARGS...]
  dict KEYS VALS [ARGS...]
  stats                 show heap accounting
  help                  show this text
  quit                  leave the shell

Quote templates that contain spaces: build "(i s)" 1 "two words"
`

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run commands interactively, or one per line from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return a.interactive()
			}
			return a.batch(a.in)
		},
	}
}

// interactive runs the line-edited shell. Errors are reported and the
// session continues.
func (a *app) interactive() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(a.cfg.History); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		f, err := os.Create(a.cfg.History)
		if err != nil {
			a.log.Warn("history not saved", "path", a.cfg.History, "err", err)
			return
		}
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}()

	fmt.Fprintln(a.out, banner)
	for {
		line, err := ln.Prompt(a.cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		done, err := a.exec(line)
		if err != nil {
			vart.Report(a.errOut, err)
			continue
		}
		if done {
			return nil
		}
	}
}

// batch runs one command per line and stops at the first failure.
func (a *app) batch(r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		done, err := a.exec(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if done {
			return nil
		}
	}
	return sc.Err()
}

// exec runs one shell line and reports whether the session should end.
func (a *app) exec(line string) (bool, error) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return false, nil
	}
	words, err := splitWords(line)
	if err != nil {
		return false, err
	}
	if len(words) == 0 {
		return false, nil
	}
	switch words[0] {
	case "quit", "exit":
		return true, nil
	case "stats":
		fmt.Fprintln(a.out, a.counter)
		return false, nil
	case "help":
		fmt.Fprint(a.out, shellHelp)
		return false, nil
	case "repl":
		return false, errors.New("already in a shell")
	}
	root := newRootCmd(a)
	root.SetArgs(words)
	return false, root.Execute()
}

// splitWords splits a shell line on blanks. Single and double quotes group
// words; inside double quotes a backslash escapes the next byte.
func splitWords(line string) ([]string, error) {
	var words []string
	var b strings.Builder
	inWord := false
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			if c == '\\' && quote == '"' && i+1 < len(line) {
				i++
				c = line[i]
			}
			b.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				words = append(words, b.String())
				b.Reset()
				inWord = false
			}
		default:
			b.WriteByte(c)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inWord {
		words = append(words, b.String())
	}
	return words, nil
}
