// Command minicon rewrites conjunctive queries over views with the MiniCon
// algorithm and manages the preference sets used to rank the rewritings.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
