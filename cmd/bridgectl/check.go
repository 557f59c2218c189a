package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/systembridge/connector-go/internal/logging"
	"github.com/systembridge/connector-go/pkg/httpclient"
	"github.com/systembridge/connector-go/pkg/version"
)

var checkSupportedVersion string

func init() {
	checkCmd.Flags().StringVar(&checkSupportedVersion, "supported-version",
		version.DefaultSupportedVersion, "minimum backend version treated as supported")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the backend version and report whether it is supported",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		probe, err := version.NewProbe(httpclient.Config{
			Host:  flagHost,
			Port:  flagPort,
			Token: flagToken,
		}, logging.Logger(), version.WithSupportedVersion(checkSupportedVersion))
		if err != nil {
			return err
		}

		detected, err := probe.CheckVersion(ctx)
		if err != nil {
			return err
		}
		if detected == "" {
			legacy, err := probe.CheckVersion2(ctx)
			if err != nil {
				return err
			}
			if legacy != "" {
				fmt.Printf("Backend version: %s (legacy, unsupported)\n", legacy)
				return nil
			}
			fmt.Println("Backend version: unknown")
			return nil
		}

		fmt.Printf("Backend version: %s\n", detected)
		fmt.Printf("Supported (>= %s): %v\n", probe.MinimumVersion(), probe.Supported(detected))
		return nil
	},
}
