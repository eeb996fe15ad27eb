// Package notify implements the advisory side channels fired after an order
// commits: a WhatsApp message to the admin and a per-order Google Sheets
// export. Both are best-effort; failures are logged and never surfaced to
// the ordering user.
package notify

import (
	"context"

	"orderdesk/internal/model"

	"github.com/rs/zerolog"
)

// OrderNotifier is what the order workflow sees of the dispatcher.
type OrderNotifier interface {
	// OrderPlaced runs the side channels for a committed order and
	// returns the exported spreadsheet URL, or "" when no export was
	// produced.
	OrderPlaced(ctx context.Context, order *model.Order) string
}

// Dispatcher fans a committed order out to the configured side channels.
type Dispatcher struct {
	whatsapp *WhatsAppSender
	sheets   *SheetsExporter
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(whatsapp *WhatsAppSender, sheets *SheetsExporter, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		whatsapp: whatsapp,
		sheets:   sheets,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// OrderPlaced runs both side channels. The order is already durable; any
// failure here is logged and dropped.
func (d *Dispatcher) OrderPlaced(ctx context.Context, order *model.Order) string {
	var sheetURL string
	if d.sheets.Enabled() {
		url, err := d.sheets.Export(ctx, order)
		if err != nil {
			d.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("category", ClassifyExportError(err)).
				Msg("spreadsheet export failed")
		} else {
			sheetURL = url
		}
	}

	if err := d.whatsapp.SendNewOrder(ctx, order.Username); err != nil {
		d.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("whatsapp notification failed")
	}

	return sheetURL
}
