package main

import (
	"fmt"
	"os"

	"timekeep.com/timekeep/cmd/timekeep/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
