package releasegate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roemer/releasegate/pkg/cache"
	"github.com/roemer/releasegate/pkg/config"
	"github.com/roemer/releasegate/pkg/gate"
	"github.com/roemer/releasegate/pkg/logging"
	"github.com/roemer/releasegate/pkg/releases"
	"github.com/roemer/releasegate/pkg/upstreams"
	"github.com/roemer/releasegate/pkg/versioning"
	"github.com/samber/lo"
)

// Prints the help for a command
func printCmdUsage(flagSet *flag.FlagSet, commandName, nonFlagArgs string) {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintf(os.Stderr, "  releasegate %s [flags]", commandName)
	if nonFlagArgs != "" {
		fmt.Fprint(os.Stderr, " "+nonFlagArgs)
	}
	fmt.Fprintln(os.Stderr, "")

	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	flagSet.PrintDefaults()
}

// The flags every command that needs the engine has
type commonFlags struct {
	verbose    bool
	configFile string
}

func (f *commonFlags) register(flagSet *flag.FlagSet) {
	flagSet.BoolVar(&f.verbose, "verbose", false, "The flag to set in order to get verbose output")
	flagSet.BoolVar(&f.verbose, "v", false, "Alias for -verbose")
	flagSet.StringVar(&f.configFile, "config", config.DefaultConfig, "The config to read, either a path, 'preset:<name>' or an url")
}

func (f *commonFlags) createLogger(out io.Writer) *slog.Logger {
	desiredLogLevel := lo.Ternary(f.verbose, slog.LevelDebug, slog.LevelInfo)
	logger := logging.NewLogger(out, desiredLogLevel)
	logger.Debug(fmt.Sprintf("Initialized logger with level: %s", desiredLogLevel))
	return logger
}

// Loads the config, applies the environment overrides and the defaults and validates it.
func loadConfig(ctx context.Context, configFile string, lookupEnv func(string) (string, bool)) (*config.ReleaseGateConfig, error) {
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvironment(lookupEnv); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// All the parts needed to answer update requests
type engine struct {
	registry   *upstreams.Registry
	comparator *versioning.Comparator
	cache      *cache.ReleaseCache
	gate       *gate.UpdateGate
}

func newEngine(cfg *config.ReleaseGateConfig, logger *slog.Logger) (*engine, error) {
	registry, err := upstreams.NewRegistry(cfg.ToCommonUpstreamSettings(logger, "releasegate/"+Version), cfg.ToCommonProjects())
	if err != nil {
		return nil, err
	}
	comparator, err := versioning.NewComparator(cfg.VersionCompare)
	if err != nil {
		return nil, err
	}
	transformer := releases.NewTransformer(logger, cfg.ToPlatformTable())
	releaseCache := cache.NewReleaseCache(logger, registry, transformer, cache.WithTTL(cfg.Ttl()))
	return &engine{
		registry:   registry,
		comparator: comparator,
		cache:      releaseCache,
		gate:       gate.NewUpdateGate(logger, releaseCache, comparator),
	}, nil
}
