package releasegate

import (
	"fmt"
	"io"
	"slices"
)

// A CLI command that can be executed
type Command struct {
	Name string
	Help string
	Run  func(args []string) error
}

// Built on request as the help command prints this list itself.
func Commands() []Command {
	return []Command{
		{Name: "help", Help: "Prints this help", Run: HelpCmd},
		{Name: "serve", Help: "Serves the update route", Run: ServeCmd},
		{Name: "check", Help: "Checks once if there is an update for a version", Run: CheckCmd},
	}
}

func FindCommand(name string) (Command, bool) {
	commands := Commands()
	cmdIdx := slices.IndexFunc(commands, func(cmd Command) bool { return cmd.Name == name })
	if cmdIdx < 0 {
		return Command{}, false
	}
	return commands[cmdIdx], true
}

// Prints the version, the base usage and the commands.
func PrintUsage(out io.Writer) {
	fmt.Fprintf(out, "releasegate v%s\n\n", Version)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  releasegate [flags] <command> [command flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range Commands() {
		fmt.Fprintf(out, "  %-8s %s\n", cmd.Name, cmd.Help)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Run `releasegate <command> -h` to get help for a specific command\n\n")
}
