package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/systembridge/connector-go/pkg/models"
)

var listenAllEvents bool

func init() {
	listenCmd.Flags().BoolVar(&listenAllEvents, "all-events", false, "also print non-telemetry frames")
}

var listenCmd = &cobra.Command{
	Use:   "listen [module...]",
	Short: "Stream live telemetry updates to stdout",
	Long:  `Registers a data listener on the backend and prints each pushed update as one JSON line. With no arguments every module is subscribed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modules := args
		if len(modules) == 0 {
			modules = models.AllModules
		}
		for _, module := range modules {
			if _, ok := models.Lookup(module); !ok {
				return fmt.Errorf("unknown module %q", module)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := newWSClient()
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()

		group, ctx := errgroup.WithContext(ctx)

		group.Go(func() error {
			return client.Listen(ctx, printUpdate, listenAllEvents)
		})

		group.Go(func() error {
			resp, err := client.RegisterDataListener(ctx, modules)
			if err != nil {
				return err
			}
			log.Info().Str("message", resp.Message).Strs("modules", modules).Msg("Data listener registered")

			// The listener goroutine does the streaming; wait for shutdown.
			<-ctx.Done()
			client.Close()
			return nil
		})

		if err := group.Wait(); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func printUpdate(module string, data any) {
	encoded, err := json.Marshal(map[string]any{"module": module, "data": data})
	if err != nil {
		log.Warn().Err(err).Str("module", module).Msg("Failed to encode update")
		return
	}
	fmt.Println(string(encoded))
}
