// mdltool inspects and exports Quake MDL model assets, either from
// loose files on disk or from inside PAK archives.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sergioffpc/quake-go/internal/assets"
	"github.com/sergioffpc/quake-go/internal/config"
	"github.com/sergioffpc/quake-go/internal/logger"
)

func main() {
	var (
		configPath string
		pakPaths   []string
		verbose    bool
	)

	app := &cli.Command{
		Name:  "mdltool",
		Usage: "Quake MDL model utility",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Destination: &configPath,
			},
			&cli.StringSliceFlag{
				Name:        "pak",
				Usage:       "PAK archive to search (repeatable, overrides config)",
				Destination: &pakPaths,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "enable debug logging",
				Destination: &verbose,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.Load(configPath)
			if err != nil {
				return ctx, err
			}
			if len(pakPaths) > 0 {
				cfg.Data.PakPaths = pakPaths
			}
			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			logger.Init(level, cfg.Logging.LogFile, verbose)
			return withConfig(ctx, cfg), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			infoCmd(),
			framesCmd(),
			clipsCmd(),
			skinCmd(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	logger.Sync()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// loadAsset resolves a model reference to raw bytes. A path that
// exists on disk is read directly; anything else is looked up in the
// configured PAK archives. The returned store is nil for disk files
// and must be closed by the caller otherwise.
func loadAsset(cfg *config.Config, name string) ([]byte, *assets.Store, error) {
	if _, err := os.Stat(name); err == nil {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return data, nil, nil
	}

	store, err := assets.NewStore(cfg.Data.PakPaths...)
	if err != nil {
		return nil, nil, err
	}
	data, err := store.Load(name)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return data, store, nil
}
