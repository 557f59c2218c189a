package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/systembridge/connector-go/pkg/models"
	"github.com/systembridge/connector-go/pkg/wsclient"
)

var dataTimeout time.Duration

func init() {
	dataCmd.Flags().DurationVar(&dataTimeout, "timeout", 10*time.Second, "deadline for the snapshot")
}

var dataCmd = &cobra.Command{
	Use:   "data [module...]",
	Short: "Fetch a telemetry snapshot and print it as JSON",
	Long:  `Fetches the requested telemetry modules over the WebSocket API. With no arguments every module is fetched.`,
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

		client := newWSClient()
		ctx, cancel := context.WithTimeout(cmd.Context(), dataTimeout+5*time.Second)
		defer cancel()

		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()

		data, err := client.GetData(ctx, modules, wsclient.WithTimeout(dataTimeout))
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}
