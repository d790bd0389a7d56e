package releasegate

import "os"

func HelpCmd(args []string) error {
	PrintUsage(os.Stderr)
	return nil
}
