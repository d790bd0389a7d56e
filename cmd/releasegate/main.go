package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/roemer/releasegate/internal/app/releasegate"
)

func main() {
	flag.Usage = func() { releasegate.PrintUsage(os.Stderr) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cmd, ok := releasegate.FindCommand(flag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "command \"%s\" not found\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
	if err := cmd.Run(flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}
