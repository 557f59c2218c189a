package wsclient

import (
	"context"
	"fmt"

	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
	"github.com/systembridge/connector-go/pkg/event"
	"github.com/systembridge/connector-go/pkg/models"
)

// ApplicationUpdate asks the backend to update itself to the given version.
// Fire and forget: the backend restarts, so no reply is awaited.
func (c *Client) ApplicationUpdate(ctx context.Context, update models.Update, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendFireAndForget(event.TypeApplicationUpdate, options.requestID, update)
}

// ExitBackend asks the backend process to exit. Fire and forget.
func (c *Client) ExitBackend(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendFireAndForget(event.TypeExitApplication, options.requestID, nil)
}

// MediaControl sends a media transport action. Fire and forget.
func (c *Client) MediaControl(ctx context.Context, control models.MediaControl, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendFireAndForget(event.TypeMediaControl, options.requestID, control)
}

// GetDirectories fetches the configured media base directories.
func (c *Client) GetDirectories(ctx context.Context, opts ...RequestOption) ([]models.MediaDirectory, error) {
	options := c.resolveOptions(opts)
	resp, err := c.sendAndWait(ctx, event.TypeGetDirectories, options.requestID, nil, event.TypeDirectories)
	if err != nil {
		return nil, err
	}
	var directories []models.MediaDirectory
	if err := decodePayload(resp, &directories); err != nil {
		return nil, err
	}
	return directories, nil
}

// GetFiles lists the files under path inside the given base directory.
func (c *Client) GetFiles(ctx context.Context, query models.MediaGetFiles, opts ...RequestOption) (*models.MediaFiles, error) {
	options := c.resolveOptions(opts)
	resp, err := c.sendAndWait(ctx, event.TypeGetFiles, options.requestID, query, event.TypeFiles)
	if err != nil {
		return nil, err
	}
	var files models.MediaFiles
	if err := decodePayload(resp, &files); err != nil {
		return nil, err
	}
	return &files, nil
}

// GetFile fetches metadata for one file inside the given base directory.
func (c *Client) GetFile(ctx context.Context, query models.MediaGetFile, opts ...RequestOption) (*models.MediaFile, error) {
	options := c.resolveOptions(opts)
	resp, err := c.sendAndWait(ctx, event.TypeGetFile, options.requestID, query, event.TypeFile)
	if err != nil {
		return nil, err
	}
	var file models.MediaFile
	if err := decodePayload(resp, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// RegisterDataListener subscribes this connection to pushed updates for the
// given modules. The backend acknowledges, then pushes DATA_UPDATE frames as
// module data changes.
func (c *Client) RegisterDataListener(ctx context.Context, modules []string, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypeRegisterDataListener, options.requestID,
		models.RegisterDataListener{Modules: modules}, event.TypeDataListenerRegistered)
}

// KeyboardKeypress sends one key press to the backend host.
func (c *Client) KeyboardKeypress(ctx context.Context, key models.KeyboardKey, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypeKeyboardKeypress, options.requestID, key, event.TypeKeyboardKeyPressed)
}

// KeyboardText types a text string on the backend host.
func (c *Client) KeyboardText(ctx context.Context, text models.KeyboardText, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypeKeyboardText, options.requestID, text, event.TypeKeyboardTextSent)
}

// SendNotification shows a desktop notification on the backend host.
func (c *Client) SendNotification(ctx context.Context, notification models.Notification, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypeNotification, options.requestID, notification.ToPayload(), event.TypeNotificationSent)
}

// OpenPath opens a filesystem path on the backend host.
func (c *Client) OpenPath(ctx context.Context, path models.OpenPath, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypeOpen, options.requestID, path, event.TypeOpened)
}

// OpenURL opens a URL on the backend host.
func (c *Client) OpenURL(ctx context.Context, url models.OpenURL, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypeOpen, options.requestID, url, event.TypeOpened)
}

// PowerSleep puts the backend host to sleep.
func (c *Client) PowerSleep(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypePowerSleep, options.requestID, nil, event.TypePowerSleeping)
}

// PowerHibernate hibernates the backend host.
func (c *Client) PowerHibernate(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypePowerHibernate, options.requestID, nil, event.TypePowerHibernating)
}

// PowerRestart restarts the backend host.
func (c *Client) PowerRestart(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypePowerRestart, options.requestID, nil, event.TypePowerRestarting)
}

// PowerShutdown shuts the backend host down.
func (c *Client) PowerShutdown(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypePowerShutdown, options.requestID, nil, event.TypePowerShuttingDown)
}

// PowerLock locks the backend host's session.
func (c *Client) PowerLock(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypePowerLock, options.requestID, nil, event.TypePowerLocking)
}

// PowerLogout logs the backend host's session out.
func (c *Client) PowerLogout(ctx context.Context, opts ...RequestOption) (*Response, error) {
	options := c.resolveOptions(opts)
	return c.sendAndWait(ctx, event.TypePowerLogout, options.requestID, nil, event.TypePowerLoggingOut)
}

// decodePayload unmarshals a correlated response's payload into dest. Error
// responses, including the synthetic timeout, surface as BadMessage so typed
// accessors never return zero values silently.
func decodePayload(resp *Response, dest any) error {
	if resp.Type == event.TypeError {
		return bridgeerrors.NewBadMessage(string(resp.Type),
			fmt.Sprintf("error response: %s", resp.Message), nil)
	}
	if len(resp.Raw) == 0 {
		return bridgeerrors.NewBadMessage(string(resp.Type), "response carried no payload", nil)
	}
	return event.DecodePayload(resp.Raw, dest)
}
