package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF writes a compact PDF summary of r to w: a header block with the
// counters, then one heading per item followed by its vote lines. Text is
// translated to cp1252 so accented names survive the core fonts.
func RenderPDF(r Result, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Votes: "+sourceTitle(r.Source), true)
	pdf.SetCreator("openbestuur", true)
	if !r.GeneratedAt.IsZero() {
		pdf.SetCreationDate(r.GeneratedAt)
	}
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	s := r.Summary()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Votes: "+sourceTitle(r.Source)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Kind: %s. Items: %d. Items with votes: %d.", r.Kind, s.TotalItems, s.ItemsWithVotes)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, row := range r.Rows() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(rowHeading(row)), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		if row.Status != "" {
			pdf.CellFormat(0, 5, tr("Status: "+string(row.Status)), "", 1, "L", false, 0, "")
		}
		for _, line := range voteLines(row.Votes) {
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
		pdf.Ln(3)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// PDF returns the rendered document as bytes.
func PDF(r Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPDF(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
