package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yangwenmai/lovenote/internal/api"
	"github.com/yangwenmai/lovenote/internal/config"
	"github.com/yangwenmai/lovenote/internal/engine"
	"github.com/yangwenmai/lovenote/internal/logging"
	"github.com/yangwenmai/lovenote/internal/store"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "lovenote",
	Short:         "Serve the Valentine card and love letter API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), configPath)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "lovenote:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(ctx, store.Options{
		Backend:  cfg.Storage.Backend,
		URL:      cfg.Storage.URL,
		MaxConns: cfg.Storage.MaxConns,
		MinConns: cfg.Storage.MinConns,
	}, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	remote, err := engine.NewRemote(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL)
	if err != nil {
		return err
	}
	keys := cfg.LLM.APIKeys
	if cfg.LLM.Provider == engine.ProviderStub && len(keys) == 0 {
		keys = []string{"stub"}
	}
	pool := engine.NewCredentialPool(keys...)
	if pool.Len() == 0 {
		log.Warn("no API keys configured; every artifact will use fallback content",
			zap.String("provider", cfg.LLM.Provider),
			zap.Strings("env", config.CredentialEnvKeys(cfg.LLM.Provider)),
		)
	}

	gen := engine.NewGenerator(cfg.LLM.Provider, remote, pool, log, engine.WithAttemptTimeout(cfg.LLM.Timeout))
	svc := engine.NewService(st, gen, log)

	srv := api.New(svc, log, api.Options{
		CORSOrigin:   cfg.Server.CORSOrigin,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		FrontendDir:  cfg.Server.FrontendDir,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("lovenote server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("provider", cfg.LLM.Provider),
			zap.Int("credentials", pool.Len()),
			zap.Bool("storage", st.Available()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
