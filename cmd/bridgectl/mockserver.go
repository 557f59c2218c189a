package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/systembridge/connector-go/internal/logging"
	"github.com/systembridge/connector-go/internal/stubserver"
)

var mockLive bool

func init() {
	mockServerCmd.Flags().BoolVar(&mockLive, "live", false, "serve real readings from this machine instead of static fixtures")
}

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local stub backend for development",
	Long:  `Serves the bridge HTTP and WebSocket APIs from canned fixtures, or from live readings of this machine with --live. Useful for developing against the client without a real backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fixtures := stubserver.DefaultFixtures()
		if mockLive {
			log.Info().Msg("Sampling local machine for fixtures")
			fixtures = stubserver.LiveFixtures(ctx, "")
		}

		stub := stubserver.New(stubserver.Config{Token: flagToken}, fixtures, logging.Logger())

		addr := net.JoinHostPort(flagHost, strconv.Itoa(flagPort))
		server := &http.Server{
			Addr:              addr,
			Handler:           stub.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		group, ctx := errgroup.WithContext(ctx)

		group.Go(func() error {
			log.Info().Str("addr", addr).Msg("Stub backend listening")
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := group.Wait(); err != nil {
			return fmt.Errorf("stub backend: %w", err)
		}
		return nil
	},
}
