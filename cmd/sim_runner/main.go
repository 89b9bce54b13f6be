// Command sim_runner runs CPU scheduling simulations headless: single runs
// with a Gantt chart, side-by-side policy comparison, exports and run history.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
