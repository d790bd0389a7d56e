package releasegate

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/roemer/releasegate/pkg/common"
)

// Checks once if there is an update for the given version and prints the payload the server would answer with.
func CheckCmd(args []string) error {
	// Flags and help for the command
	var flags commonFlags
	var projectId string
	var platform string
	flagSet := flag.NewFlagSet("check", flag.ExitOnError)
	flags.register(flagSet)
	flagSet.StringVar(&projectId, "project", "", "The id of the project, defaults to the first configured project")
	flagSet.StringVar(&platform, "platform", common.PLATFORM_WINDOWS_X86_64, "The platform of the client")
	flagSet.Usage = func() { printCmdUsage(flagSet, "check", "<current-version>") }
	flagSet.Parse(args)

	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("expected exactly one version")
	}

	// Logs go to stderr so the output can be piped
	logger := flags.createLogger(os.Stderr)
	ctx := context.Background()
	cfg, err := loadConfig(ctx, flags.configFile, os.LookupEnv)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	if projectId == "" {
		projectId = cfg.Projects[0].Id
	}
	return runCheck(ctx, engine, os.Stdout, projectId, platform, flagSet.Arg(0))
}

func runCheck(ctx context.Context, engine *engine, out io.Writer, projectId, platform, currentVersion string) error {
	if !engine.registry.HasProject(projectId) {
		return fmt.Errorf("%w: '%s'", common.ErrUnknownProject, projectId)
	}
	release, hasUpdate := engine.gate.CheckForUpdate(ctx, projectId, platform, currentVersion)
	if !hasUpdate {
		fmt.Fprintln(out, "no update")
		return nil
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(release)
}
