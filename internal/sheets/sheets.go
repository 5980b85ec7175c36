// Package sheets appends delivered monthly reports to a Google
// spreadsheet, one row per month, as an optional second delivery
// target next to the message queue.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"uchet/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME
// (default "Reports").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Reports"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// DeliverReport appends one summary row: year, month, income, expense,
// balance in major units, plus the rendered text. Matches the
// scheduler's delivery port.
func (c *Client) DeliverReport(ctx context.Context, rep core.MonthReport, text string) error {
	row := []any{
		rep.Year,
		rep.Month,
		float64(rep.IncomeMinor) / core.MinorUnitScale,
		float64(rep.ExpenseMinor) / core.MinorUnitScale,
		float64(rep.BalanceMinor) / core.MinorUnitScale,
		text,
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:F", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append report row: %w", err)
	}

	slog.InfoContext(ctx, "Report appended to spreadsheet",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"year", rep.Year,
		"month", rep.Month)
	return nil
}
