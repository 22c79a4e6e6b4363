// Command chatbot runs the site chat widget in a terminal and drives the
// booking form from the command line.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
