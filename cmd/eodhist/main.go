// Command eodhist is a cache-aware CLI for the EOD Historical Data API.
package main

import (
	"fmt"
	"os"

	"github.com/quantfin/eodhistdata/internal/cli"
	"github.com/quantfin/eodhistdata/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the outcome to a process exit
// code, keeping main itself trivially small.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
