package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/systembridge/connector-go/pkg/models"
)

var (
	notifyMessage string
	notifyIcon    string
	notifyTimeout float64
)

func init() {
	notifyCmd.Flags().StringVar(&notifyMessage, "message", "", "notification body")
	notifyCmd.Flags().StringVar(&notifyIcon, "icon", "", "notification icon URL")
	notifyCmd.Flags().Float64Var(&notifyTimeout, "duration", 0, "seconds the notification stays visible")
}

var notifyCmd = &cobra.Command{
	Use:   "notify <title>",
	Short: "Show a desktop notification on the backend host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notification := models.Notification{Title: args[0]}
		if notifyMessage != "" {
			notification.Message = &notifyMessage
		}
		if notifyIcon != "" {
			notification.Icon = &notifyIcon
		}
		if notifyTimeout > 0 {
			notification.Timeout = &notifyTimeout
		}

		client := newWSClient()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()

		go func() {
			// The listener feeds the correlator; exit errors surface on the
			// request below as timeouts or closed-connection errors.
			_ = client.Listen(ctx, nil, false)
		}()

		resp, err := client.SendNotification(ctx, notification)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", resp.Type, resp.Message)
		return nil
	},
}
