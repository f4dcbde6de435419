// mtbridge translates MetaEditor paths between Windows and the macOS host
// and runs Windows executables through Wine or Parallels.
package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

var version = "dev"

func main() {
	root := newRootCmd(defaultBuilder)
	root.Version = version

	if err := root.Execute(); err != nil {
		fatal(err)
	}
	os.Exit(exitCode)
}

// exitCode is set by the exec command to the child's exit status.
var exitCode int

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "mtbridge: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	os.Exit(1)
}
