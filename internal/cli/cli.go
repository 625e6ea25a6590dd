// Package cli implements p2sh's command-line entry point (spec.md §6
// "External interfaces"), adapted from the teacher's internal/maincmd:
// a flag-tagged Cmd struct parsed by mna/mainer.Parser, dispatched
// through mainer.Stdio/mainer.ExitCode. Unlike the teacher's
// multi-subcommand tool (parse/resolve/tokenize, dispatched through
// reflection in buildCmds), p2sh has exactly one mode of operation —
// run a script, a -c expression, or a REPL line loop — so Main
// dispatches directly instead of building a reflection-based command
// table.
package cli

import (
	"fmt"

	"github.com/mna/mainer"
)

const binName = "p2sh"

var (
	shortUsage = fmt.Sprintf(`usage: %s [-c EXPR] [-s] [script [args...]]
Run with no script and no -c against a terminal for a REPL.
`, binName)

	longUsage = fmt.Sprintf(`usage: %[1]s [-c EXPR] [-s] [script [args...]]

p2sh is an interpreter for a small, dynamically-typed, expression-oriented
scripting language with a domain extension for packet filtering over pcap
streams (spec.md §1).

Valid flag options are:
       -c EXPR                   Execute EXPR as the program instead of
                                  reading a script file.
       -s                         Skip writing the pcap global header and
                                  the default per-packet emission.

With no script and no -c, and stdin attached to a terminal, p2sh starts a
REPL. Otherwise it reads the program from stdin. A leading "#!...\n"
shebang line in a script file is skipped.

Runtime tunables (environment variables, no script-level syntax):
       P2SH_MAX_STEPS            VM instruction budget (0 = unlimited).
       P2SH_MAX_CALL_DEPTH       Call stack depth limit.
       P2SH_SNAPLEN              Default pcap_open_write capture length.
`, binName)
)

// Cmd holds the parsed command line (spec.md §6 CLI).
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Expr       string `flag:"c"`
	SkipHeader bool   `flag:"s"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

// Validate reports no configuration errors: p2sh's flags need no
// cross-validation (the teacher's Validate rejects an unknown
// subcommand, a check that doesn't apply here since there is only one
// mode of operation).
func (c *Cmd) Validate() error { return nil }

// Main parses args and runs the resulting program to completion,
// returning the process exit code (spec.md §6 "Exit codes: 0 on clean
// completion; non-zero on compile error, runtime error, or exit(n)").
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}

	code, err := Run(stdio, cfg, c.Expr, c.SkipHeader, c.args)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return mainer.ExitCode(code)
}
