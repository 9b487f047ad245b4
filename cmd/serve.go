package cmd

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
	"golang.org/x/sync/errgroup"

	"token-quest/pkg/api"
	"token-quest/pkg/logger"
	"token-quest/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	Long: `Connect to the configured RPC endpoint and serve the Token Quest API.

The process exits if the node cannot be reached at startup.

Examples:
  token-quest serve
  PORT=8080 LOG_LEVEL=debug token-quest serve
  METRICS_ADDR=:9090 token-quest serve`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	level := cfg.LogLevel
	if verbose || cfg.Debug() {
		level = "debug"
	}
	log := logger.New(level, cfg.Debug())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, cfg.RPCTimeout)
	defer cancel()

	client, svc, err := connect(dialCtx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	block, err := client.BlockNumber(dialCtx)
	if err != nil {
		return fmt.Errorf("failed to connect to blockchain network: %w", err)
	}
	if chainID, err := client.ChainID(dialCtx); err != nil {
		log.Warn().Err(err).Msg("could not read chain id")
	} else if chainID.Int64() != cfg.ChainID {
		log.Warn().
			Int64("configured", cfg.ChainID).
			Int64("node", chainID.Int64()).
			Msg("chain id mismatch")
	}
	log.Info().
		Str("network", cfg.NetworkName).
		Uint64("block", block).
		Str("router", cfg.RouterAddress.Hex()).
		Msg("connected to node")

	server := api.NewServer(svc, api.Options{
		Network:    cfg.NetworkName,
		CORSOrigin: cfg.CORSOrigin,
		RPCTimeout: cfg.RPCTimeout,
		Logger:     log,
	})

	servers := []*http.Server{server.NewHTTPServer(cfg.ListenAddr())}
	if cfg.MetricsAddr != "" {
		servers = append(servers, metrics.NewServer(cfg.MetricsAddr))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
