package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"dailyoperacional/internal/dataset"
)

var referenceColumns = []string{"Empresa", "Setor", "Nucleo", "Regional"}

type referenceRow struct {
	Empresa  string `csv:"Empresa"`
	Setor    string `csv:"Setor"`
	Nucleo   string `csv:"Nucleo"`
	Regional string `csv:"Regional"`
}

func (r referenceRow) reference() dataset.Reference {
	return dataset.Reference{
		Empresa:  strings.TrimSpace(r.Empresa),
		Setor:    strings.TrimSpace(r.Setor),
		Nucleo:   strings.TrimSpace(r.Nucleo),
		Regional: strings.TrimSpace(r.Regional),
	}
}

func toReferences(rows []referenceRow) []dataset.Reference {
	out := make([]dataset.Reference, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.reference())
	}
	return out
}

// SheetReference reads the reference table from a spreadsheet CSV export.
type SheetReference struct {
	SheetID string
	GID     string
	// BaseURL overrides the export host, mostly for tests.
	BaseURL string
	Client  *http.Client
}

func (s SheetReference) Name() string { return "reference" }

func (s SheetReference) url() string {
	base := s.BaseURL
	if base == "" {
		base = "https://docs.google.com/spreadsheets/d/"
	}
	return fmt.Sprintf("%s%s/export?format=csv&gid=%s", base, s.SheetID, s.GID)
}

func (s SheetReference) LoadReferences(ctx context.Context) ([]dataset.Reference, error) {
	b, err := fetch(ctx, s.Client, s.url())
	if err != nil {
		return nil, err
	}
	var rows []referenceRow
	if err := decodeTable(b, referenceColumns, &rows); err != nil {
		return nil, fmt.Errorf("reference sheet: %w", err)
	}
	return toReferences(rows), nil
}

// WorkbookReference reads the reference table from the first sheet of an
// xlsx workbook on disk.
type WorkbookReference struct {
	Path string
}

func (w WorkbookReference) Name() string { return "reference" }

func (w WorkbookReference) LoadReferences(ctx context.Context) ([]dataset.Reference, error) {
	b, err := os.ReadFile(w.Path)
	if err != nil {
		return nil, fmt.Errorf("reference workbook: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("reference workbook: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("reference workbook: %w", ErrEmptySource)
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reference workbook: read %s: %w", sheets[0], err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []referenceRow
	if err := decodeRows(cells, referenceColumns, &rows); err != nil {
		return nil, fmt.Errorf("reference workbook: %w", err)
	}
	return toReferences(rows), nil
}
