package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/aretw0/pageflow/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API: stateless /render and /select, the page catalog,
and stateful conversations under /sessions/{id}. With metrics enabled, Prometheus
counters are exposed on a separate listener.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			a.cfg.Server.Addr = addr
		}
		noValidate, _ := cmd.Flags().GetBool("no-validate")

		eng, err := a.engine()
		if err != nil {
			return err
		}
		svc, err := a.conversation()
		if err != nil {
			return err
		}
		mgr, err := a.sessions()
		if err != nil {
			return err
		}

		handler, err := httpAdapter.NewHandler(eng,
			httpAdapter.WithConversation(svc, mgr),
			httpAdapter.WithRequestValidation(!noValidate),
			httpAdapter.WithLogger(a.logger),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		servers := []*http.Server{newServer(a.cfg.Server.Addr, handler)}
		if a.cfg.Metrics.Enabled {
			m, err := a.metrics()
			if err != nil {
				return err
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			servers = append(servers, newServer(a.cfg.Metrics.Addr, mux))
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, srv := range servers {
			g.Go(func() error {
				a.logger.Info("listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			<-ctx.Done()
			a.logger.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			var errs []error
			for _, srv := range servers {
				if err := srv.Shutdown(shutdownCtx); err != nil {
					errs = append(errs, err)
					_ = srv.Close()
				}
			}
			return errors.Join(errs...)
		})

		err = g.Wait()
		a.logger.Info("server stopped")
		return err
	},
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Bool("no-validate", false, "Skip OpenAPI request validation")
}
