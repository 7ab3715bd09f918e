package grid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig locates a sheet and the OAuth files used to reach it
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name"`
	CredentialsFile string `yaml:"credentials_file"` // OAuth client id JSON
	TokenFile       string `yaml:"token_file"`       // Created after the first login
}

// Sheets is a grid backed by one tab of a Google spreadsheet
type Sheets struct {
	cfg     SheetsConfig
	srv     *sheets.Service
	columns int
}

// NewSheets authorizes and connects to the Sheets API. The first call
// without a cached token asks the user to open an authorization URL and
// paste the code back; the resulting token is saved to TokenFile.
func NewSheets(ctx context.Context, cfg SheetsConfig, in io.Reader, out io.Writer) (*Sheets, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is not configured")
	}
	client, err := authorize(ctx, cfg, in, out)
	if err != nil {
		return nil, err
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Sheets{cfg: cfg, srv: srv, columns: DefaultColumns}, nil
}

// DefaultColumns covers the name column and the six rating keys
const DefaultColumns = 7

// SetColumns sets how many columns Read fetches
func (s *Sheets) SetColumns(n int) {
	if n > 0 {
		s.columns = n
	}
}

// URL returns the browser link of the spreadsheet
func (s *Sheets) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + s.cfg.SpreadsheetID
}

// Read returns every row of the configured columns
func (s *Sheets) Read(ctx context.Context) ([][]string, error) {
	rng := s.readRange()
	resp, err := s.srv.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rng, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, 0, len(r))
		for _, cell := range r {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Sheets) readRange() string {
	return fmt.Sprintf("%s!A1:%s", s.cfg.SheetName, ColumnLetter(s.columns))
}

// Replace clears the range covered by rows and writes them from A1
func (s *Sheets) Replace(ctx context.Context, rows [][]string) error {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return nil
	}
	s.columns = cols

	rng := fmt.Sprintf("%s!A1:%s%d", s.cfg.SheetName, ColumnLetter(cols), len(rows))
	if _, err := s.srv.Spreadsheets.Values.Clear(s.cfg.SpreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		row := make([]interface{}, 0, len(r))
		for _, cell := range r {
			row = append(row, cell)
		}
		values = append(values, row)
	}
	_, err := s.srv.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, s.cfg.SheetName+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// StyleHeader makes the header bold white on dark grey, centers the
// rating cells and fits column widths.
func (s *Sheets) StyleHeader(ctx context.Context, columns, rows int) error {
	sheetID, err := s.sheetID(ctx)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:         sheetID,
						StartRowIndex:   0,
						EndRowIndex:     1,
						ForceSendFields: []string{"SheetId", "StartRowIndex"},
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{
								Bold:            true,
								ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1},
							},
							BackgroundColor:     &sheets.Color{Red: 0.2, Green: 0.2, Blue: 0.2},
							HorizontalAlignment: "CENTER",
						},
					},
					Fields: "userEnteredFormat(textFormat,backgroundColor,horizontalAlignment)",
				},
			},
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    1,
						EndRowIndex:      int64(rows + 1),
						StartColumnIndex: 1,
						ForceSendFields:  []string{"SheetId"},
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{HorizontalAlignment: "CENTER"},
					},
					Fields: "userEnteredFormat.horizontalAlignment",
				},
			},
			{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:         sheetID,
						Dimension:       "COLUMNS",
						StartIndex:      0,
						EndIndex:        int64(columns),
						ForceSendFields: []string{"SheetId", "StartIndex"},
					},
				},
			},
		},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("format sheet: %w", err)
	}
	return nil
}

func (s *Sheets) sheetID(ctx context.Context) (int64, error) {
	meta, err := s.srv.Spreadsheets.Get(s.cfg.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == s.cfg.SheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", s.cfg.SheetName)
}

// ColumnLetter converts a 1-based column number to its A1 letters
func ColumnLetter(n int) string {
	var b strings.Builder
	for n > 0 {
		n--
		b.WriteByte(byte('A' + n%26))
		n /= 26
	}
	letters := []byte(b.String())
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}

// authorize returns an HTTP client for the cached token, refreshing it
// when expired and falling back to the interactive flow when no usable
// token exists.
func authorize(ctx context.Context, cfg SheetsConfig, in io.Reader, out io.Writer) (*http.Client, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read client credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse client credentials: %w", err)
	}

	tok, err := loadToken(cfg.TokenFile)
	if err == nil {
		src := conf.TokenSource(ctx, tok)
		fresh, err := src.Token()
		if err == nil {
			if fresh.AccessToken != tok.AccessToken {
				if err := saveToken(cfg.TokenFile, fresh); err != nil {
					return nil, err
				}
			}
			return oauth2.NewClient(ctx, src), nil
		}
	}

	tok, err = tokenFromWeb(ctx, conf, in, out)
	if err != nil {
		return nil, err
	}
	if err := saveToken(cfg.TokenFile, tok); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, "Login successful, token saved.")
	return conf.Client(ctx, tok), nil
}

func tokenFromWeb(ctx context.Context, conf *oauth2.Config, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Open this link in your browser, then paste the authorization code:\n%s\n", authURL)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

// loadToken reads a cached token
func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// saveToken caches a token for later runs
func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
