// Package commands implements the gitdistance subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kurobon/gitdistance/internal/config"
	"github.com/kurobon/gitdistance/internal/distance"
	"github.com/kurobon/gitdistance/internal/git"
	"github.com/kurobon/gitdistance/internal/logging"
)

// GlobalOptions holds the persistent flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
}

// Register installs the persistent flags on fs. Everything except --config
// is resolved through config.Load so flags, env and file share one precedence.
func (o *GlobalOptions) Register(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", "", "path to a gitdistance.yaml file")
	fs.StringP("repo", "C", "", "repository to read (default \".\")")
	fs.String("shared", "", "repository to borrow missing objects from")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-format", "", "log format: text or json")
}

func addWalkFlags(fs *pflag.FlagSet) {
	fs.Int("max-depth", 0, "stop walking after this many edges (0 = unbounded)")
	fs.String("strategy", "", fmt.Sprintf("walk strategy: %v (default %s)", distance.Strategies(), distance.DefaultStrategy))
}

// env is the state a subcommand needs once flags are parsed.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	repo   *git.Repository
}

func (o *GlobalOptions) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.ConfigPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	repo, err := git.Open(cfg.Repository.Path, git.OpenOptions{SharedPath: cfg.Repository.SharedPath})
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, repo: repo}, nil
}

func (e *env) walkOptions() []distance.Option {
	return []distance.Option{
		distance.WithStrategy(e.cfg.StrategyValue()),
		distance.WithVisitFunc(logging.VisitFunc(e.logger)),
	}
}
