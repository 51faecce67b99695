// Command stateyear merges the capability and regime panels into a
// single state-year table.
package main

import (
	"fmt"
	"os"

	"github.com/cdwalton/stateyear/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
