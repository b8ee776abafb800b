// Command sqllint fails when a package-level SQL string constant lacks the
// "--sql <uuid>" marker that SQLRunner requires at runtime.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal/sqlinline"}
	}

	findings, err := lintPaths(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(2)
	}
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "sqllint: queries without a --sql marker")
	for _, f := range findings {
		fmt.Fprintf(os.Stderr, "  %s\n", f)
	}
	os.Exit(1)
}
