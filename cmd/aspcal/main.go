// Command aspcal serves and prints the NYC alternate side parking suspension calendar.
package main

import (
	"os"

	_ "time/tzdata"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
