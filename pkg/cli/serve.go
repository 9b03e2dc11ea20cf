package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/cli/config"
	controller "github.com/marcelogarciass/dashboard-projeto/pkg/controller/http"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/usecase"
	"github.com/marcelogarciass/dashboard-projeto/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg     config.Server
		firestoreCfg  config.Firestore
		jiraCfg       config.Jira
		fixtureCfg    config.Fixture
		cacheCfg      config.Cache
		vocabularyCfg config.Vocabulary
		telemetryCfg  config.Telemetry
	)

	flags := joinFlags(
		serverCfg.Flags(),
		firestoreCfg.Flags(),
		jiraCfg.Flags(),
		fixtureCfg.Flags(),
		cacheCfg.Flags(),
		vocabularyCfg.Flags(),
		telemetryCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting dashboard server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("firestore", firestoreCfg),
				slog.Any("jira", jiraCfg),
				slog.Any("fixture", fixtureCfg),
				slog.Any("cache", cacheCfg),
				slog.Any("vocabulary", vocabularyCfg),
				slog.Any("telemetry", telemetryCfg),
			)

			shutdownTelemetry, err := telemetryCfg.Configure(ctx, appName, version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure telemetry")
			}
			defer func() {
				if err := shutdownTelemetry(context.Background()); err != nil {
					logger.Warn("Failed to flush telemetry", "error", err)
				}
			}()

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			vocab, err := vocabularyCfg.Configure()
			if err != nil {
				return err
			}

			source, err := selectSource(ctx, &jiraCfg, &fixtureCfg)
			if err != nil {
				return err
			}

			cacheOpts, err := cacheCfg.Options()
			if err != nil {
				return err
			}
			if source != nil {
				cacheOpts = append(cacheOpts, usecase.WithIssueSource(source))
			}
			cache, err := usecase.NewIssueCache(repo, cacheOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create issue cache")
			}

			var serverOpts []controller.Option
			if origins := serverCfg.Origins(); len(origins) > 0 {
				serverOpts = append(serverOpts, controller.WithCORSOrigins(origins))
			}
			if serverCfg.FrontendDir != "" {
				serverOpts = append(serverOpts, controller.WithFrontendFS(http.Dir(serverCfg.FrontendDir)))
			}

			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				usecase.NewDashboardUseCase(cache, vocab),
				usecase.NewSelectionUseCase(repo),
				serverOpts...,
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			if source != nil && cacheCfg.Warmup {
				async.Dispatch(ctx, func(ctx context.Context) error {
					info, err := cache.Refresh(ctx)
					if err != nil {
						return goerr.Wrap(err, "failed to warm up issue cache")
					}
					ctxlog.From(ctx).Info("Issue cache warmed up",
						"snapshot_id", info.ID,
						"issues", info.IssueCount,
					)
					return nil
				})
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// selectSource picks Jira when configured, then the fixture file. A nil
// source makes the cache serve only what is already stored.
func selectSource(ctx context.Context, jiraCfg *config.Jira, fixtureCfg *config.Fixture) (interfaces.IssueSource, error) {
	logger := ctxlog.From(ctx)

	source, err := jiraCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure jira")
	}
	if source != nil {
		if fixtureCfg.IsConfigured() {
			logger.Warn("Both Jira and an issues file are configured, using Jira",
				"issues_file", fixtureCfg.IssuesFile,
			)
		}
		return source, nil
	}

	if source := fixtureCfg.Configure(); source != nil {
		return source, nil
	}

	logger.Warn("No issue source configured, serving the stored snapshot only")
	return nil, nil
}
