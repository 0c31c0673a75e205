package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/toolbridge/slack-mcp-server/pkg/cli/config"
	httpctrl "github.com/toolbridge/slack-mcp-server/pkg/controller/http"
	mcpctrl "github.com/toolbridge/slack-mcp-server/pkg/controller/mcp"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/types"
	"github.com/toolbridge/slack-mcp-server/pkg/repository/credential"
	"github.com/toolbridge/slack-mcp-server/pkg/service/refresh"
	"github.com/toolbridge/slack-mcp-server/pkg/service/slackapi"
	"github.com/toolbridge/slack-mcp-server/pkg/service/worker"
	"github.com/toolbridge/slack-mcp-server/pkg/usecase"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/async"
	"github.com/toolbridge/slack-mcp-server/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var (
		slackCfg     config.Slack
		refreshCfg   config.Refresh
		errlogCfg    config.ErrorLog
		memoryCfg    config.Memory
		transportCfg config.Transport
	)

	var flags []cli.Flag
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, refreshCfg.Flags()...)
	flags = append(flags, errlogCfg.Flags()...)
	flags = append(flags, memoryCfg.Flags()...)
	flags = append(flags, transportCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the MCP tool server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := transportCfg.Validate(); err != nil {
				return err
			}

			auth, err := slackCfg.ResolveAuth()
			if err != nil {
				return goerr.Wrap(err, "failed to resolve Slack authentication")
			}

			holder := slackapi.NewHolder(auth)
			errlog := errlogCfg.Configure()

			ucOpts := []usecase.Option{
				usecase.WithErrorLog(errlog),
				usecase.WithWorkspace(slackCfg.Workspace()),
				usecase.WithRefreshEnabled(refreshCfg.Enabled()),
			}

			// Scheduled refresh needs a stored user session plus the
			// workspace subdomain the token exchange scrapes.
			var scheduler *worker.RefreshScheduler
			if auth.Mode() == types.AuthModeUser {
				if slackCfg.Workspace() == "" {
					logging.Default().Info("SLACK_WORKSPACE not set, credential refresh unavailable")
				} else {
					store := refreshCfg.ConfigureStore()
					bindStoredCredentials(store, holder, auth, slackCfg.Workspace())

					manager := refresh.New(store, holder,
						refresh.WithErrorLog(errlog),
						refresh.WithIntervalDays(refreshCfg.IntervalDays()),
					)
					scheduler = worker.NewRefreshScheduler(manager,
						worker.WithEnabled(refreshCfg.Enabled()),
					)
					ucOpts = append(ucOpts, usecase.WithRefreshDriver(scheduler))
				}
			}

			if memStore := memoryCfg.Configure(); memStore != nil {
				ucOpts = append(ucOpts, usecase.WithMemory(memStore))
				logging.Default().Info("memory tools enabled", "memory", memoryCfg)
			}

			uc := usecase.New(holder, ucOpts...)

			ctrl, err := mcpctrl.New(uc, version, mcpctrl.WithErrorLog(errlog))
			if err != nil {
				return goerr.Wrap(err, "failed to build MCP server")
			}

			if scheduler != nil {
				if err := scheduler.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start refresh scheduler")
				}
				defer scheduler.Stop()
			}

			// Warm the name caches off the startup path so the first tool
			// call does not pay the population latency.
			async.Dispatch(ctx, func(ctx context.Context) error {
				uc.WarmCaches(ctx)
				return nil
			})

			logging.Default().Info("Starting MCP server",
				"auth_mode", auth.Mode(),
				"transport", transportCfg,
				"refresh", refreshCfg,
				"error_log", errlogCfg,
			)

			if transportCfg.Mode() == config.TransportHTTP {
				return serveHTTP(ctx, ctrl, transportCfg.Addr(), scheduler)
			}
			return serveStdio(ctx, ctrl)
		},
	}
}

// bindStoredCredentials makes sure the credentials file and the live client
// agree before the refresh engine starts. A fresh install is seeded from the
// environment; an existing file that loads cleanly carries the most recently
// refreshed session, which replaces the possibly stale environment pair. A
// file that fails to load is left alone and the environment pair stays
// active.
func bindStoredCredentials(store *credential.Store, holder *slackapi.Holder, auth model.AuthConfig, workspace string) {
	if !store.Exists() {
		if _, err := store.CreateInitial(auth.Token(), auth.Cookie(), workspace); err != nil {
			logging.Default().Warn("failed to seed credentials file",
				"error", err, "path", store.Path())
			return
		}
		logging.Default().Info("seeded credentials file", "path", store.Path())
		return
	}

	creds, err := store.Load()
	if err != nil {
		logging.Default().Warn("failed to load stored credentials, continuing with environment credentials",
			"error", err, "path", store.Path())
		return
	}

	if creds.Credentials.Token == auth.Token() && creds.Credentials.Cookie == auth.Cookie() {
		return
	}
	if err := holder.UpdateCredentials(creds.Credentials.Token, creds.Credentials.Cookie); err != nil {
		logging.Default().Warn("failed to bind stored credentials", "error", err)
		return
	}
	logging.Default().Info("using stored credentials from previous refresh",
		"last_refreshed", creds.Metadata.LastRefreshed,
		"refresh_count", creds.Metadata.RefreshCount)
}

// serveStdio speaks MCP over stdin/stdout until the client disconnects or a
// signal arrives. Stdout belongs to the protocol; logs go to stderr.
func serveStdio(ctx context.Context, ctrl *mcpctrl.Controller) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Default().Info("serving on stdio")
	if err := ctrl.Run(ctx); err != nil && ctx.Err() == nil {
		return goerr.Wrap(err, "stdio session failed")
	}

	logging.Default().Info("stdio session closed")
	return nil
}

func serveHTTP(ctx context.Context, ctrl *mcpctrl.Controller, addr string, scheduler *worker.RefreshScheduler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           httpctrl.New(ctrl.Server()),
		ReadHeaderTimeout: 30 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Default().Info("Starting HTTP server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- goerr.Wrap(err, "failed to start server")
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Default().Info("Received shutdown signal", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}

		logging.Default().Info("Server shutdown completed")
		return nil
	}
}
