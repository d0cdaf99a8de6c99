// Package internal wires together castmirror's components: it builds the
// Codec Catalog, resolves the active Policy, and runs the Mirror
// Controller against the configured WatchPairs.
package internal

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hbomb79/castmirror/internal/codec"
	"github.com/hbomb79/castmirror/internal/config"
	"github.com/hbomb79/castmirror/internal/dispatch"
	"github.com/hbomb79/castmirror/internal/mirror"
	"github.com/hbomb79/castmirror/internal/policy"
	"github.com/hbomb79/castmirror/internal/stream"
	"github.com/hbomb79/castmirror/internal/transcodebackend"
	"github.com/hbomb79/castmirror/pkg/logger"
)

var log = logger.Get("App")

// App is the top-level runnable service, analogous to the teacher's own
// top-level service wrapper: it owns process lifetime, not any one
// component's internals.
type App struct {
	configPath string
	dryRun     bool
	pairs      []config.WatchPair
}

func New(configPath string, dryRun bool, pairs []config.WatchPair) *App {
	return &App{configPath: configPath, dryRun: dryRun, pairs: pairs}
}

// Run loads configuration, builds the codec catalog and policy, and
// either performs a dry run or starts the live Mirror Controller until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	fileCfg, err := config.Load(ctx, a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	envCfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}

	dryRun := a.dryRun || fileCfg.Dryrun

	codecSource := codec.FFmpegSource{BinPath: envCfg.FfmpegBinPath}
	catalog, err := codec.Build(ctx, codecSource)
	if err != nil {
		return fmt.Errorf("building codec catalog: %w", err)
	}

	pol, err := policy.Load(fileCfg.RawPolicy, catalog)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}
	policy.Set(pol)

	prober := stream.FFmpegProber{FfmpegBinPath: envCfg.FfmpegBinPath, FfprobeBinPath: envCfg.FfprobeBinPath}
	backend := transcodebackend.FFmpegAdapter{BinPath: envCfg.FfmpegBinPath}

	concurrency := envCfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	pool := dispatch.NewPool(concurrency)

	controller := mirror.NewController(prober, backend, pool)

	if dryRun {
		log.Emit(logger.INFO, "Starting dry run over %d watch pair(s)\n", len(a.pairs))
		err := controller.DryRun(ctx, a.pairs)
		pool.Close()
		return err
	}

	log.Emit(logger.INFO, "Starting mirror over %d watch pair(s) with %d worker(s)\n", len(a.pairs), concurrency)
	for _, pair := range a.pairs {
		if err := controller.AddPair(ctx, pair); err != nil {
			controller.Close()
			return err
		}
	}

	<-ctx.Done()
	log.Emit(logger.STOP, "Shutdown signal received, draining in-flight work\n")
	controller.Close()

	return nil
}
