// Package template writes finished records into the assessment workbook
// template at the addresses carried by each field cell.
package template

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/model"
)

// DefaultSheet receives bare addresses when no sheet is configured.
const DefaultSheet = "COSHH Assessment"

// ErrTemplate marks failures that make projection impossible: an unreadable
// template, an unknown sheet or an invalid coordinate.
var ErrTemplate = eris.New("template: projection failed")

// Address is a resolved cell coordinate.
type Address struct {
	Sheet string
	Col   int
	Row   int
}

// ParseAddress resolves "Sheet!A1" or a bare "A1" against defaultSheet.
func ParseAddress(addr, defaultSheet string) (Address, error) {
	addr = strings.TrimSpace(addr)
	sheet, ref := defaultSheet, addr
	if i := strings.LastIndex(addr, "!"); i >= 0 {
		sheet = strings.Trim(addr[:i], "'")
		ref = addr[i+1:]
	}
	ref = strings.ReplaceAll(strings.ToUpper(ref), "$", "")
	if sheet == "" || ref == "" {
		return Address{}, eris.Wrapf(ErrTemplate, "invalid address %q", addr)
	}

	col, row, err := xlsx.GetCoordsFromCellIDString(ref)
	if err != nil || col < 0 || row < 0 {
		return Address{}, eris.Wrapf(ErrTemplate, "invalid address %q", addr)
	}
	return Address{Sheet: sheet, Col: col, Row: row}, nil
}

// ArtifactName is the output file name for docID at now. Runs within the
// same minute share a name.
func ArtifactName(docID string, now time.Time) string {
	return filepath.Base(docID) + "_" + now.Format("2006-01-02_1504") + ".xlsx"
}

// Projector fills a copy of the template and writes it to the output
// directory.
type Projector struct {
	templatePath string
	outputDir    string
	sheet        string
}

// NewProjector creates a projector. An empty sheet selects DefaultSheet.
func NewProjector(templatePath, outputDir, sheet string) *Projector {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Projector{templatePath: templatePath, outputDir: outputDir, sheet: sheet}
}

// Project writes every projectable cell of records and saves the artifact,
// returning its path. Cells without an address or value are skipped; list
// addresses receive the same value at every coordinate.
func (p *Projector) Project(records []model.Record, docID string, now time.Time) (string, error) {
	f, err := xlsx.OpenFile(p.templatePath)
	if err != nil {
		return "", eris.Wrapf(ErrTemplate, "open %s: %v", p.templatePath, err)
	}

	written := 0
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, nc := range rec.Cells() {
			if !nc.Cell.Projectable() {
				continue
			}
			for _, a := range nc.Cell.Address {
				if strings.TrimSpace(a) == "" {
					continue
				}
				if err := p.write(f, a, nc.Cell.Value); err != nil {
					return "", eris.Wrapf(err, "template: write %s.%s", rec.Domain(), nc.Key)
				}
				written++
			}
		}
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", eris.Wrap(err, "template: create output dir")
	}
	path := filepath.Join(p.outputDir, ArtifactName(docID, now))
	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "template: save artifact")
	}

	zap.L().Info("template: artifact written",
		zap.String("document", docID),
		zap.String("path", path),
		zap.Int("cells", written),
	)
	return path, nil
}

func (p *Projector) write(f *xlsx.File, raw, value string) error {
	addr, err := ParseAddress(raw, p.sheet)
	if err != nil {
		return err
	}
	sheet, ok := f.Sheet[addr.Sheet]
	if !ok {
		return eris.Wrapf(ErrTemplate, "sheet %q not found", addr.Sheet)
	}

	cell := sheet.Cell(addr.Row, addr.Col)
	cell.SetString(value)
	cell.SetStyle(presentation(cell.GetStyle()))
	return nil
}

// presentation returns a copy of base with the fixed value style applied.
// Border, fill and the remaining font and alignment attributes are kept.
func presentation(base *xlsx.Style) *xlsx.Style {
	st := xlsx.NewStyle()
	if base != nil {
		*st = *base
	}
	st.Font.Name = "Arial"
	st.Font.Size = 12
	st.Font.Bold = true
	st.Alignment.Horizontal = "center"
	st.Alignment.Vertical = "center"
	st.Alignment.WrapText = true
	st.ApplyFont = true
	st.ApplyAlignment = true
	return st
}
