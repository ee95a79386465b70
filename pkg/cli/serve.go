package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/owasprisk/pkg/cli/config"
	httpctrl "github.com/secmon-lab/owasprisk/pkg/controller/http"
	"github.com/secmon-lab/owasprisk/pkg/service/worker"
	"github.com/secmon-lab/owasprisk/pkg/usecase"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
	"github.com/secmon-lab/owasprisk/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var secureCookie bool
	var sessionTTL time.Duration
	var sweepInterval time.Duration
	var repoCfg config.Repository
	var profileCfg config.Profile
	var archiveCfg config.Archive

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("OWASPRISK_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Mark the session cookie Secure (serve behind TLS)",
			Sources:     cli.EnvVars("OWASPRISK_SECURE_COOKIE"),
			Destination: &secureCookie,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Category:    "Session",
			Usage:       "Idle time after which a session and its history are removed",
			Value:       12 * time.Hour,
			Sources:     cli.EnvVars("OWASPRISK_SESSION_TTL"),
			Destination: &sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "session-sweep-interval",
			Category:    "Session",
			Usage:       "Interval of the idle session sweep",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("OWASPRISK_SESSION_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, profileCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			weights, err := profileCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load weight profile")
			}

			ucOpts := []usecase.Option{
				usecase.WithDefaultWeights(weights),
			}

			gcs, err := archiveCfg.Configure(ctx)
			if err != nil {
				return err
			}
			if gcs != nil {
				defer safe.Close(ctx, gcs)
				ucOpts = append(ucOpts, usecase.WithReportArchive(gcs))
			}

			uc := usecase.New(repo, ucOpts...)

			sweeper := worker.NewSessionSweepWorker(uc.Session, sessionTTL, sweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweep worker")
			}

			httpHandler, err := httpctrl.New(uc.Assessment, uc.Session,
				httpctrl.WithSecureCookie(secureCookie),
				httpctrl.WithSessionTTL(sessionTTL),
			)
			if err != nil {
				sweeper.Stop()
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
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
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				sweeper.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
