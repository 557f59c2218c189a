// bridgectl is a command-line client for a system bridge backend. It talks
// to the backend's HTTP control plane and WebSocket message plane, and can
// also run a local stub backend for development.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/systembridge/connector-go/internal/logging"
	"github.com/systembridge/connector-go/pkg/wsclient"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	flagHost      string
	flagPort      int
	flagToken     string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:     "bridgectl",
	Short:   "bridgectl - system bridge command-line client",
	Long:    `bridgectl talks to a system bridge backend over its HTTP and WebSocket APIs: fetch telemetry, send notifications, stream live updates.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; flags and real env still apply.
		_ = godotenv.Load()

		logging.Init(logging.Config{
			Format:    flagLogFormat,
			Level:     flagLogLevel,
			Component: "bridgectl",
		})

		if flagHost == "" {
			flagHost = envOr("SYSTEMBRIDGE_HOST", "127.0.0.1")
		}
		if flagPort == 0 {
			flagPort = envIntOr("SYSTEMBRIDGE_PORT", 9170)
		}
		if flagToken == "" {
			flagToken = os.Getenv("SYSTEMBRIDGE_TOKEN")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "backend host (default $SYSTEMBRIDGE_HOST or 127.0.0.1)")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 0, "backend port (default $SYSTEMBRIDGE_PORT or 9170)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "backend token (default $SYSTEMBRIDGE_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "auto", "log format (json, console, auto)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(mockServerCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bridgectl %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid %s %q; using %d\n", key, value, fallback)
		return fallback
	}
	return parsed
}

func newWSClient() *wsclient.Client {
	return wsclient.NewClient(wsclient.Config{
		Host:  flagHost,
		Port:  flagPort,
		Token: flagToken,
	}, logging.Logger())
}
