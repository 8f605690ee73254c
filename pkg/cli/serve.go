package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/scrumkit/collie/pkg/cli/config"
	controller "github.com/scrumkit/collie/pkg/controller/http"
	"github.com/scrumkit/collie/pkg/domain/types"
	"github.com/scrumkit/collie/pkg/infra/firestore"
	"github.com/scrumkit/collie/pkg/infra/jira"
	"github.com/scrumkit/collie/pkg/infra/slack"
	"github.com/scrumkit/collie/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		githubCfg    config.GitHub
		jiraCfg      config.Jira
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		sentryCfg    config.Sentry
		policyCfg    config.Policy
	)

	flags := serverCfg.Flags()
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, jiraCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, firestoreCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting collie server",
				slog.String("addr", serverCfg.Addr),
				slog.String("jira_url", jiraCfg.BaseURL),
				slog.Bool("slack_enabled", slackCfg.Enabled()),
				slog.Bool("event_log_enabled", firestoreCfg.Enabled()),
			)

			if sentryCfg.Enabled() {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:         sentryCfg.DSN,
					Environment: sentryCfg.Environment,
					Release:     types.Version,
				}); err != nil {
					return goerr.Wrap(err, "failed to initialize Sentry")
				}
				defer sentry.Flush(2 * time.Second)
			}

			policy, err := policyCfg.Load()
			if err != nil {
				return err
			}

			// Create infra clients
			ticketClient, err := jira.NewClient(jiraCfg.BaseURL, jiraCfg.Email, jiraCfg.APIToken)
			if err != nil {
				return goerr.Wrap(err, "failed to create Jira client")
			}

			ucOpts := []usecase.GitHookOption{
				usecase.WithPolicy(policy),
			}

			if slackCfg.Enabled() {
				notifier, err := slack.NewNotifier(slackCfg.WebhookURL)
				if err != nil {
					return goerr.Wrap(err, "failed to create Slack notifier")
				}
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
			}

			if firestoreCfg.Enabled() {
				eventStore, err := firestore.NewEventStore(ctx,
					firestoreCfg.ProjectID,
					firestoreCfg.CredentialsFile,
					firestore.WithCollection(firestoreCfg.Collection),
				)
				if err != nil {
					return goerr.Wrap(err, "failed to create Firestore event store")
				}
				if closer, ok := eventStore.(io.Closer); ok {
					defer closer.Close()
				}
				ucOpts = append(ucOpts, usecase.WithEventStore(eventStore))
			}

			// Create use cases
			githookUC := usecase.NewGitHook(ticketClient, ucOpts...)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				githookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
