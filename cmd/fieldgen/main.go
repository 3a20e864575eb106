// Command fieldgen evaluates, samples and catalogs analytic field formulas.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
