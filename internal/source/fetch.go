package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"

	"dailyoperacional/internal/normalize"
)

var maxBody int64 = 64 << 20

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", redact(url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("source: fetch %s: status %d", redact(url), resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", redact(url), err)
	}
	if int64(len(b)) > maxBody {
		return nil, fmt.Errorf("source: read %s: %w (limit %d bytes)", redact(url), ErrBodyTooLarge, maxBody)
	}
	return b, nil
}

// redact drops the query string, which may carry document ids.
func redact(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

// rowsReader feeds already-read rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}

// decodeTable decodes a CSV export into out (a pointer to a slice of
// csv-tagged structs). Header names are normalized before matching and every
// required column must be present.
func decodeTable(b []byte, required []string, out interface{}) error {
	cr := csv.NewReader(bytes.NewReader(normalize.DecodeText(b)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("source: parse csv: %w", err)
	}
	return decodeRows(rows, required, out)
}

func decodeRows(rows [][]string, required []string, out interface{}) error {
	if len(rows) == 0 {
		return ErrEmptySource
	}
	for i := range rows[0] {
		rows[0][i] = normalize.Header(rows[0][i])
	}
	if err := checkColumns(rows[0], required); err != nil {
		return err
	}
	if len(rows) == 1 {
		return ErrEmptySource
	}
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: rows}, out); err != nil {
		return fmt.Errorf("source: decode rows: %w", err)
	}
	return nil
}

func checkColumns(header, required []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := have[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}
