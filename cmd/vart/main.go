// vart - command line front end for the vart value engine
//
// Usage:
//
//	vart build TEMPLATE [ARGS...]               Build a value and print it
//	vart get TEMPLATE READ_TEMPLATE [ARGS...]   Build a value, then read it back
//	vart hash TEMPLATE [ARGS...]                Print the digest of a value
//	vart dict KEYS VALS [ARGS...]               Build a dict and show its buckets
//	vart repl                                   Interactive shell
//
// Each ARG is parsed by the template token that consumes it: i as int64,
// u as uint64, f as float64, s as raw text, n ignored. Negative numbers
// go after "--":
//
//	vart build -- "(i [s f])" -3 name 1.5
//
// Any error is printed as "[ERRO]: <category>: <message>" and the process
// exits with status 1.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Neumenon/vart/internal/config"
	"github.com/Neumenon/vart/vart"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	if err := newRootCmd(a).Execute(); err != nil {
		vart.Fatal(err)
	}
}

// app is the state shared by every command of one process, including the
// commands a shell session runs.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg     config.Config
	counter *vart.Counter
	heap    *vart.Heap
	log     *slog.Logger
}

type rootFlags struct {
	config     string
	verbose    bool
	allocLimit int64
}

// setup loads the configuration and creates the heap. Only the first call
// has an effect.
func (a *app) setup(cmd *cobra.Command, flags *rootFlags) error {
	if a.heap != nil {
		return nil
	}
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("alloc-limit") {
		cfg.AllocLimit = flags.allocLimit
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	level, _ := cfg.Level()
	if flags.verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.counter = &vart.Counter{Limit: cfg.AllocLimit}
	a.heap = vart.NewHeap(a.counter)
	a.log.Debug("configured", "alloc_limit", cfg.AllocLimit, "history", cfg.History)
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "vart",
		Short:         "Build, read and hash vart value trees",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.log.Debug("heap", "cmd", cmd.Name(), "live", a.counter.Live(), "bytes", a.counter.Bytes())
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "YAML config file (default $HOME/"+config.DefaultFile+")")
	pf.BoolVar(&flags.verbose, "verbose", false, "log debug output to stderr")
	pf.Int64Var(&flags.allocLimit, "alloc-limit", 0, "cap on live engine bytes, 0 for none")

	root.AddCommand(a.buildCmd(), a.getCmd(), a.hashCmd(), a.dictCmd(), a.replCmd())
	return root
}

// ============================================================
// Commands
// ============================================================

func (a *app) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build TEMPLATE [ARGS...]",
		Short: "Build a value from a template and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.buildAll(args[0], args[1:])
			if err != nil {
				return err
			}
			defer v.Delete()
			fmt.Fprintln(a.out, vart.Emit(v))
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get TEMPLATE READ_TEMPLATE [ARGS...]",
		Short: "Build a value, read it through a second template, print each destination",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.buildAll(args[0], args[2:])
			if err != nil {
				return err
			}
			defer v.Delete()
			dst := destinations(args[1])
			if err := v.Get(args[1], dst...); err != nil {
				return err
			}
			filled := reached(v, args[1])
			for i, d := range dst {
				s, ok := formatDest(d)
				if !ok {
					continue
				}
				if !filled[i] {
					s = "-"
				}
				fmt.Fprintln(a.out, s)
			}
			return nil
		},
	}
}

func (a *app) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash TEMPLATE [ARGS...]",
		Short: "Print the digest of a value, or \"unhashable\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.buildAll(args[0], args[1:])
			if err != nil {
				return err
			}
			defer v.Delete()
			if h, ok := v.Hash(); ok {
				fmt.Fprintf(a.out, "%016x\n", h)
			} else {
				fmt.Fprintln(a.out, "unhashable")
			}
			return nil
		},
	}
}

func (a *app) dictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dict KEYS VALS [ARGS...]",
		Short: "Build a dict from two array templates and show its buckets",
		Long: `Build a dict from two array templates and show its buckets.

KEYS takes its arguments first, VALS takes the rest. For example:

  vart dict "(s s)" "(i i)" a b 1 2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, rest, err := a.build(args[0], args[2:])
			if err != nil {
				return err
			}
			vals, err := a.buildAll(args[1], rest)
			if err != nil {
				keys.Delete()
				return err
			}
			d, err := a.heap.Dict(keys, vals)
			if err != nil {
				keys.Delete()
				vals.Delete()
				return err
			}
			defer d.Delete()

			n, _ := d.Len()
			mod, _ := d.Mod()
			sizes, _ := d.BucketSizes()
			fmt.Fprintf(a.out, "len=%d mod=%d\n", n, mod)
			fmt.Fprintf(a.out, "buckets=%v\n", sizes)
			fmt.Fprintln(a.out, vart.Emit(d))
			return nil
		},
	}
}

// ============================================================
// Arguments
// ============================================================

// build parses as many words as template consumes and builds the value.
// It returns the words left over.
func (a *app) build(template string, words []string) (*vart.Value, []string, error) {
	args, rest, err := parseArgs(template, words)
	if err != nil {
		return nil, nil, err
	}
	v, err := a.heap.Build(template, args...)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("built", "template", template, "args", len(args), "tag", v.Tag())
	return v, rest, nil
}

// buildAll is build with every word consumed.
func (a *app) buildAll(template string, words []string) (*vart.Value, error) {
	v, rest, err := a.build(template, words)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		v.Delete()
		return nil, fmt.Errorf("%d arguments left over: %s", len(rest), strings.Join(rest, " "))
	}
	return v, nil
}

// parseArgs converts command line words into Build arguments, one per
// payload token of template.
func parseArgs(template string, words []string) ([]interface{}, []string, error) {
	var args []interface{}
	for i := 0; i < len(template); i++ {
		tok := template[i]
		switch tok {
		case 'n', 'i', 'u', 'f', 's':
		case 'a', 'l', 'd', 'v':
			return nil, nil, fmt.Errorf("token %q at offset %d takes a handle, which cannot be given on the command line", tok, i)
		default:
			// Structure, whitespace and unknown tokens are left to the engine.
			continue
		}
		if len(words) == 0 {
			return nil, nil, fmt.Errorf("token %q at offset %d has no argument", tok, i)
		}
		arg, err := parseWord(tok, words[0])
		if err != nil {
			return nil, nil, fmt.Errorf("argument %d for %q: %w", len(args)+1, tok, err)
		}
		args = append(args, arg)
		words = words[1:]
	}
	return args, words, nil
}

func parseWord(tok byte, word string) (interface{}, error) {
	switch tok {
	case 'i':
		return strconv.ParseInt(word, 0, 64)
	case 'u':
		return strconv.ParseUint(word, 0, 64)
	case 'f':
		return strconv.ParseFloat(word, 64)
	}
	return word, nil
}

// destinations allocates one Get destination per payload token.
func destinations(template string) []interface{} {
	var dst []interface{}
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case 'n':
			dst = append(dst, nil)
		case 'i':
			dst = append(dst, new(int64))
		case 'u':
			dst = append(dst, new(uint64))
		case 'f':
			dst = append(dst, new(float64))
		case 's':
			dst = append(dst, new([]byte))
		case 'a', 'l', 'd', 'v':
			dst = append(dst, new(*vart.Value))
		}
	}
	return dst
}

// reached reports, per payload token of a template Get accepted, whether
// Get reached a value for it. Tokens past the end of an array or list are
// skipped without filling their destination.
func reached(v *vart.Value, template string) []bool {
	var out []bool
	pos := 0
	skipSpace := func() {
		for pos < len(template) && strings.IndexByte(" \t\n\r\v\f", template[pos]) >= 0 {
			pos++
		}
	}
	var visit func(v *vart.Value)
	visit = func(v *vart.Value) {
		skipSpace()
		if pos >= len(template) {
			return
		}
		switch tok := template[pos]; tok {
		case '(', '[':
			pos++
			n := 0
			if v != nil {
				n, _ = v.Len()
			}
			for i := 0; ; i++ {
				skipSpace()
				if pos >= len(template) {
					return
				}
				if c := template[pos]; c == ')' || c == ']' {
					pos++
					return
				}
				var elem *vart.Value
				if i < n {
					elem, _ = v.Index(i)
				}
				visit(elem)
			}
		case '_':
			pos++
		default:
			out = append(out, v != nil)
			pos++
		}
	}
	visit(v)
	return out
}

// formatDest renders a filled destination.
func formatDest(d interface{}) (string, bool) {
	switch p := d.(type) {
	case *int64:
		return strconv.FormatInt(*p, 10), true
	case *uint64:
		return strconv.FormatUint(*p, 10), true
	case *float64:
		return strconv.FormatFloat(*p, 'g', -1, 64), true
	case *[]byte:
		return strconv.Quote(string(*p)), true
	case **vart.Value:
		if *p == nil {
			return "-", true
		}
		return vart.Emit(*p), true
	}
	return "", false
}
