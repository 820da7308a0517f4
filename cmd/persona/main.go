// Package main implements the persona command, a terminal front end for
// the persons table. The main goroutine plays the UI consumer: each command
// posts its operation to the UI loop, runs the loop until the operation's
// continuations have finished, then prints the resulting rows.
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
