// Package sheets reads the sales ledger and the cumulative master sheet from
// the spreadsheet collaborator, and writes the daily summary row back.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/internal/analysis/ledger"
	"salespulse_backend/platform/apperr"
	"salespulse_backend/platform/config"
	"salespulse_backend/platform/logger"
)

// Master sheet logical columns holding each representative's cumulative
// baseline.
const (
	masterColumnRep       = "Rep"
	masterColumnBooked    = "Appointments Booked"
	masterColumnConducted = "Appointments Conducted"
	masterColumnClosed    = "New Clients Closed"
	masterColumnRevenue   = "New Client Revenue"
)

var masterRequiredColumns = []string{
	masterColumnRep,
	masterColumnBooked,
	masterColumnConducted,
	masterColumnClosed,
	masterColumnRevenue,
}

// The master sheet's daily log tab, where each run appends one row per rep.
const masterDailyLogTab = "Daily Log"

// Service wraps the spreadsheet API for the two sheets the pipeline touches.
type Service struct {
	api      *sheetsapi.Service
	ledgerID string
	masterID string
	log      *logger.Logger
}

// New creates the spreadsheet service from a service-account credentials
// file. Returns nil without error when no ledger spreadsheet is configured.
func New(ctx context.Context, cfg config.SheetsConfig, log *logger.Logger) (*Service, error) {
	if cfg.GetLedgerSpreadsheetID() == "" {
		return nil, nil
	}

	api, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.GetSheetsCredentialsFile()),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Service{
		api:      api,
		ledgerID: cfg.GetLedgerSpreadsheetID(),
		masterID: cfg.GetMasterSpreadsheetID(),
		log:      log,
	}, nil
}

// TabTitles lists the tab titles of a spreadsheet.
func (s *Service) TabTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	meta, err := s.api.Spreadsheets.Get(spreadsheetID).Context(ctx).Fields("sheets.properties.title").Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet tabs: %w", err)
	}

	titles := make([]string, 0, len(meta.Sheets))
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

// ReadLedgerRows reads the sales ledger tab for one business day and
// normalizes it. The exact tab for the day is preferred; when it is absent
// the newest dated tab not after the day is used, since reps sometimes log
// sales on the previous day's tab over a weekend.
func (s *Service) ReadLedgerRows(ctx context.Context, day time.Time, loc *time.Location) ([]ledger.Row, error) {
	if s == nil {
		return nil, nil
	}

	titles, err := s.TabTitles(ctx, s.ledgerID)
	if err != nil {
		return nil, err
	}

	tab, ok := FindTabForDate(titles, day, loc)
	if !ok {
		tab, ok = LatestTab(titles, day, loc)
		if !ok {
			return nil, apperr.New(apperr.KindNotFound,
				fmt.Sprintf("no ledger tab found for %s", day.Format("2006-01-02")))
		}
		s.log.Warn("ledger tab fallback", "wanted", day.Format("2006-01-02"), "using", tab)
	}

	values, err := s.readRange(ctx, s.ledgerID, quoteTab(tab))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	return ledger.RowsFromValues(values[0], values[1:])
}

// ReadRunningState reads the cumulative baseline for every representative
// from the master sheet. Keys are the raw rep names as they appear in the
// sheet; callers match them against roster name variants.
func (s *Service) ReadRunningState(ctx context.Context, tab string) (map[string]domain.RepRunningState, error) {
	if s == nil || s.masterID == "" {
		return nil, nil
	}

	values, err := s.readRange(ctx, s.masterID, quoteTab(tab))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, apperr.New(apperr.KindNotFound, "master sheet is empty")
	}

	headers := values[0]
	mapping, err := ledger.MapRequiredColumns(masterRequiredColumns, headers)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	col := func(logical string) int { return index[mapping[logical]] }

	states := make(map[string]domain.RepRunningState)
	for _, row := range values[1:] {
		rep := strings.TrimSpace(cell(row, col(masterColumnRep)))
		if rep == "" {
			continue
		}
		states[rep] = domain.RepRunningState{
			AppointmentsBooked:    int(ledger.ParseNumeric(cell(row, col(masterColumnBooked)))),
			AppointmentsConducted: int(ledger.ParseNumeric(cell(row, col(masterColumnConducted)))),
			NewClientsClosed:      int(ledger.ParseNumeric(cell(row, col(masterColumnClosed)))),
			NewClientRevenue:      ledger.ParseCurrency(cell(row, col(masterColumnRevenue))),
		}
	}

	return states, nil
}

// AppendDailyRows appends one summary row per representative to the master
// sheet's daily log tab.
func (s *Service) AppendDailyRows(ctx context.Context, report *domain.DailyReport) error {
	if s == nil || s.masterID == "" {
		return nil
	}

	rows := make([][]interface{}, 0, len(report.PerRep))
	for _, rep := range report.PerRep {
		rows = append(rows, []interface{}{
			report.Date.Format("2006-01-02"),
			rep.Rep,
			rep.Daily.AppointmentsBooked,
			rep.Daily.AppointmentsConducted,
			rep.Daily.TotalNewClientsClosed,
			rep.Daily.TotalRebuys,
			rep.Daily.TotalRevenue,
			rep.Running.CloseRate,
			rep.Running.AverageDealSize,
			rep.Running.ShowRate,
		})
	}

	_, err := s.api.Spreadsheets.Values.
		Append(s.masterID, quoteTab(masterDailyLogTab), &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append daily rows: %w", err)
	}

	return nil
}

// readRange fetches a whole range as strings.
func (s *Service) readRange(ctx context.Context, spreadsheetID, rangeRef string) ([][]string, error) {
	resp, err := s.api.Spreadsheets.Values.Get(spreadsheetID, rangeRef).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", rangeRef, err)
	}

	values := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, fmt.Sprint(v))
		}
		values = append(values, cells)
	}
	return values, nil
}

// quoteTab wraps a tab title in single quotes so titles with spaces or
// slashes survive A1 notation.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
