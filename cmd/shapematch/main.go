// Command shapematch compares observed documents against tagged YAML
// expectations.
package main

import (
	"os"

	"github.com/roach88/shapematch/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
