package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/model"
)

const (
	// FileName is the download name of a generated report
	FileName = "owasp_risk_report.pdf"
	// ContentType is the MIME type of a generated report
	ContentType = "application/pdf"

	Title = "OWASP Risk Assessment Report"
)

// documentDate is stamped as creation and modification date so that the
// same evaluation always renders to the same bytes.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build renders the evaluation into a single PDF document: the title, the
// likelihood, impact and severity lines, then one line per factor in
// catalog order. Pagination is left to gofpdf's auto page break.
func Build(eval *model.Evaluation) ([]byte, error) {
	return build(eval, true)
}

func build(eval *model.Evaluation, compress bool) ([]byte, error) {
	if eval == nil || eval.Score == nil {
		return nil, goerr.New("evaluation is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(Title, false)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	summary := []string{
		fmt.Sprintf("Likelihood: %.2f", eval.Score.Likelihood),
		fmt.Sprintf("Impact: %.2f", eval.Score.Impact),
		fmt.Sprintf("Severity: %.2f", eval.Score.Severity),
	}
	for _, line := range summary {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	for _, row := range eval.Factors {
		pdf.CellFormat(0, 7, tr(FactorLine(row)), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, goerr.Wrap(err, "failed to render report")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(err, "failed to write report")
	}
	return buf.Bytes(), nil
}

// FactorLine formats one factor of the report
func FactorLine(row model.FactorResult) string {
	return fmt.Sprintf("%s: %s (Score: %d, Weighted: %d)",
		row.Factor.Name, row.Selected.Label, row.Score, row.WeightedScore)
}
