// Package sheets stores events as rows of a Google Sheets tab, columns A:C.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"planner/internal/core"
	"planner/internal/store"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config holds what is needed to reach a spreadsheet.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// valuesAPI is the subset of the Sheets values service the store uses.
type valuesAPI interface {
	get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
	appendRow(ctx context.Context, spreadsheetID, rng string, row []interface{}) error
}

type Client struct {
	api           valuesAPI
	spreadsheetID string
	sheetName     string
}

var _ store.Store = (*Client)(nil)

// New creates a Sheets-backed store authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Events"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		api:           &serviceValues{svc: svc},
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A:C", c.sheetName)
}

func (c *Client) location() string {
	return c.spreadsheetID + "/" + c.sheetName
}

// Load reads all rows of the sheet. Rows with a cell count other than three
// are skipped. A missing spreadsheet, or a missing tab in an existing one, is
// an uninitialized store.
func (c *Client) Load(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot
	if c.api == nil {
		return snap, &store.OpError{Op: store.OpLoad, Store: c.location(), Err: errors.New("sheets service not initialized")}
	}

	values, err := c.api.get(ctx, c.spreadsheetID, c.dataRange())
	if isNotFound(err) {
		slog.WarnContext(ctx, "Spreadsheet or sheet not found; starting fresh", "store", c.location())
		snap.NotInitialized = true
		return snap, nil
	}
	if err != nil {
		return snap, &store.OpError{Op: store.OpLoad, Store: c.location(), Err: err}
	}

	for _, row := range values {
		e, err := core.EventFromFields(toStrings(row))
		if err != nil {
			snap.Skipped++
			continue
		}
		snap.Events = append(snap.Events, e)
	}
	return snap, nil
}

// Append adds the event as a new row after the last one.
func (c *Client) Append(ctx context.Context, e core.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if c.api == nil {
		return &store.OpError{Op: store.OpAppend, Store: c.location(), Err: errors.New("sheets service not initialized")}
	}

	row := []interface{}{e.Date, e.Description, e.Expense}
	if err := c.api.appendRow(ctx, c.spreadsheetID, c.dataRange(), row); err != nil {
		return &store.OpError{Op: store.OpAppend, Store: c.location(), Err: err}
	}
	return nil
}

type serviceValues struct {
	svc *gsheet.Service
}

func (s *serviceValues) get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (s *serviceValues) appendRow(ctx context.Context, spreadsheetID, rng string, row []interface{}) error {
	// RAW keeps "1.50" as text instead of letting Sheets turn it into a number.
	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	return nil
}

// isNotFound reports a missing spreadsheet (404) or a missing tab, which the
// API answers with 400 "Unable to parse range".
func isNotFound(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Code {
	case http.StatusNotFound:
		return true
	case http.StatusBadRequest:
		return strings.Contains(gerr.Message, "Unable to parse range")
	}
	return false
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}
