package main

import (
	"os"

	"commentboard/service"
)

var exit = os.Exit

func main() {
	exit(RealMain(os.Args[1:]))
}

// RealMain runs the command line and returns its exit code.
func RealMain(args []string) int {
	return service.Execute(args, os.Stdout, os.Stderr)
}
