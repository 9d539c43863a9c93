package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/openskills/internal/cache"
	"github.com/klauern/openskills/internal/config"
	"github.com/klauern/openskills/internal/discovery"
	"github.com/klauern/openskills/internal/loader"
	"github.com/klauern/openskills/internal/logging"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/progress"
	"github.com/klauern/openskills/internal/registry"
)

// loadResult carries everything a command needs after a load pass.
type loadResult struct {
	Registry    *registry.Registry
	Diagnostics []model.Diagnostic
	Config      *config.Config
}

// resolveConfig loads configuration and applies --root overrides.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if roots := cmd.StringSlice("root"); len(roots) > 0 {
		cfg.Roots.Paths = roots
		cfg.Roots.LegacyPaths = nil
	}

	return cfg, nil
}

// loadSkills runs a full load pass using the resolved configuration.
func loadSkills(cmd *cli.Command) (*loadResult, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	disc, err := discovery.New(
		discovery.WithRoots(cfg.ResolvedRoots()...),
		discovery.WithLayout(cfg.Layout()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure discovery: %w", err)
	}

	opts := []loader.Option{}

	if cfg.Load.Workers > 1 {
		opts = append(opts, loader.WithWorkers(cfg.Load.Workers))
	}

	if cfg.Cache.Enabled {
		parseCache, err := cache.New("skills", cfg.Cache.Location)
		if err != nil {
			logging.Warn("parse cache unavailable", logging.Err(err))
		} else {
			parseCache.Prune(cfg.Cache.TTL)
			opts = append(opts, loader.WithCache(parseCache))
		}
	}

	bar := progress.New(progress.Options{
		Max:         100,
		Description: "Loading skills",
	})
	opts = append(opts, loader.WithProgress(func(done, total int) {
		if total > 0 {
			_ = bar.Set(done * 100 / total)
		}
	}))

	ld, err := loader.New(disc, opts...)
	if err != nil {
		return nil, err
	}

	reg, diagnostics, err := ld.Load()
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}

	return &loadResult{
		Registry:    reg,
		Diagnostics: diagnostics,
		Config:      cfg,
	}, nil
}
