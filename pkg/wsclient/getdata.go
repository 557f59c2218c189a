package wsclient

import (
	"context"
	"slices"
	"time"

	bridgeerrors "github.com/systembridge/connector-go/pkg/errors"
	"github.com/systembridge/connector-go/pkg/event"
	"github.com/systembridge/connector-go/pkg/models"
)

const getDataPollInterval = 100 * time.Millisecond

// GetData fetches a snapshot of the requested modules. It registers a
// temporary sink for module pushes, makes sure a listener is running, sends
// GET_DATA and waits until every requested module has arrived or the deadline
// elapses. Module pushes may complete the aggregate before the GET_DATA
// acknowledgement arrives; that is fine.
func (c *Client) GetData(ctx context.Context, modules []string, opts ...RequestOption) (*models.ModulesData, error) {
	options := c.resolveOptions(opts)

	data := &models.ModulesData{}
	unsubscribe := c.subscribe(func(module string, payload any) {
		if !slices.Contains(modules, module) {
			return
		}
		if err := data.SetModuleData(module, payload); err != nil {
			c.logger.Warn().Err(err).Str("module", module).Msg("Dropping mismatched module payload")
		}
	})
	defer unsubscribe()

	session := c.ensureListener()

	// The deadline bounds the whole call, the wait for the GET_DATA
	// acknowledgement included.
	deadlineCtx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	ack, err := c.sendAndWait(deadlineCtx, event.TypeGetData, options.requestID,
		models.GetData{Modules: modules}, event.TypeDataGet)
	if err != nil {
		if deadlineCtx.Err() != nil && ctx.Err() == nil {
			if data.HasAll(modules) {
				return data, nil
			}
			return nil, bridgeerrors.NewDataMissing(modules, "timed out waiting for modules")
		}
		return nil, err
	}
	c.logger.Debug().Str("message", ack.Message).Msg("Data request acknowledged")

	ticker := time.NewTicker(getDataPollInterval)
	defer ticker.Stop()

	for {
		if data.HasAll(modules) {
			return data, nil
		}
		select {
		case <-deadlineCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, bridgeerrors.NewDataMissing(modules, "timed out waiting for modules")
		case <-session.done:
			if session.err != nil {
				return nil, session.err
			}
			return nil, bridgeerrors.NewConnectionClosed("get_data", nil)
		case <-ticker.C:
		}
	}
}
