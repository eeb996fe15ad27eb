package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"orderdesk/internal/config"
	"orderdesk/internal/model"

	"github.com/rs/zerolog"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Coarse failure categories for spreadsheet export logging.
const (
	ExportFailureQuota      = "quota"
	ExportFailurePermission = "permission"
	ExportFailureOther      = "other"
)

// SheetsExporter creates one Google Sheets document per order. Service
// clients are built lazily behind a guarded initialiser on first export.
type SheetsExporter struct {
	cfg    config.GoogleConfig
	logger zerolog.Logger

	mu     sync.Mutex
	sheets *sheets.Service
	drive  *drive.Service
}

// NewSheetsExporter creates an exporter with explicit credentials config.
func NewSheetsExporter(cfg config.GoogleConfig, logger zerolog.Logger) *SheetsExporter {
	return &SheetsExporter{
		cfg:    cfg,
		logger: logger.With().Str("component", "sheets").Logger(),
	}
}

// Enabled reports whether credentials are configured at all.
func (e *SheetsExporter) Enabled() bool {
	return e.cfg.CredentialsJSON != "" || e.cfg.CredentialsFile != ""
}

func (e *SheetsExporter) services(ctx context.Context) (*sheets.Service, *drive.Service, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sheets != nil && e.drive != nil {
		return e.sheets, e.drive, nil
	}

	var credOpt option.ClientOption
	switch {
	case e.cfg.CredentialsJSON != "":
		credOpt = option.WithCredentialsJSON([]byte(e.cfg.CredentialsJSON))
	case e.cfg.CredentialsFile != "":
		credOpt = option.WithCredentialsFile(e.cfg.CredentialsFile)
	default:
		return nil, nil, errors.New("google service account not configured")
	}

	sheetsSvc, err := sheets.NewService(ctx, credOpt, option.WithScopes(sheets.SpreadsheetsScope, drive.DriveScope))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, credOpt, option.WithScopes(drive.DriveScope))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	e.sheets = sheetsSvc
	e.drive = driveSvc
	return e.sheets, e.drive, nil
}

// Export creates a spreadsheet for the order and returns its URL. Layout:
// metadata rows, blank row, header row, one row per item, totals row.
func (e *SheetsExporter) Export(ctx context.Context, order *model.Order) (string, error) {
	sheetsSvc, driveSvc, err := e.services(ctx)
	if err != nil {
		return "", err
	}

	title := fmt.Sprintf("Order #%s - %s - %s",
		order.ID, order.Username, order.CreatedAt.Format("2006-01-02"))

	spreadsheetID, spreadsheetURL, err := e.createDocument(ctx, sheetsSvc, driveSvc, title)
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	values := [][]interface{}{
		{"Order ID", order.ID.String()},
		{"BA Username", order.Username},
		{"Order Date", order.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Status", order.Status},
		{},
		{"#", "Lot Type Code", "Item Type", "Parent Code", "Quantity Needed", "MRP", "Line Total"},
	}
	for i, item := range order.Items {
		values = append(values, []interface{}{
			i + 1,
			item.LotTypeCode,
			derefOrEmpty(item.ItemLotType),
			derefOrEmpty(item.ParentCode),
			item.Quantity,
			item.MRP.InexactFloat64(),
			item.LineTotal.InexactFloat64(),
		})
	}
	values = append(values, []interface{}{}, []interface{}{"Total Amount", order.TotalAmount.InexactFloat64()})

	_, err = sheetsSvc.Spreadsheets.Values.Update(spreadsheetID, "A1", &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to write spreadsheet values: %w", err)
	}

	e.logger.Info().
		Str("order_id", order.ID.String()).
		Str("url", spreadsheetURL).
		Msg("order spreadsheet created")

	return spreadsheetURL, nil
}

// createDocument creates the spreadsheet, inside the configured Drive folder
// when one is set.
func (e *SheetsExporter) createDocument(ctx context.Context, sheetsSvc *sheets.Service, driveSvc *drive.Service, title string) (string, string, error) {
	if e.cfg.DriveFolderID != "" {
		file, err := driveSvc.Files.Create(&drive.File{
			Name:     title,
			MimeType: "application/vnd.google-apps.spreadsheet",
			Parents:  []string{e.cfg.DriveFolderID},
		}).Context(ctx).Do()
		if err != nil {
			return "", "", err
		}
		return file.Id, "https://docs.google.com/spreadsheets/d/" + file.Id, nil
	}

	doc, err := sheetsSvc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return doc.SpreadsheetId, doc.SpreadsheetUrl, nil
}

// ClassifyExportError maps an export failure to a coarse category for
// logging. The categories mirror the failure modes an admin can act on:
// quota/storage exhaustion, missing permissions, everything else.
func ClassifyExportError(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429 || containsReason(apiErr, "quotaExceeded", "storageQuotaExceeded", "rateLimitExceeded"):
			return ExportFailureQuota
		case apiErr.Code == 403:
			return ExportFailurePermission
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "quota") {
		return ExportFailureQuota
	}
	return ExportFailureOther
}

func containsReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	return false
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
