// Package firpdf renders a FIR as a printable A4 document.
package firpdf

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
)

const (
	ContentType = "application/pdf"

	lineHeight  = 6
	labelWidth  = 45
	pageMargin  = 15
	titleSize   = 16
	headingSize = 12
	bodySize    = 10
)

// Filename is the download name of the FIR document, e.g. FIR-2024-0105-000001.pdf.
func Filename(fir *models.FIR) string {
	name := fir.FIRNumber
	if name == "" {
		name = "FIR-" + strconv.FormatInt(fir.ID, 10)
	}
	return strings.ReplaceAll(name, "/", "-") + ".pdf"
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (d *document) heading(text string) {
	d.pdf.Ln(lineHeight / 2) //nolint:mnd // half a line
	d.pdf.SetFont("Helvetica", "B", headingSize)
	d.pdf.CellFormat(0, lineHeight+2, d.tr(text), "B", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", bodySize)
}

func (d *document) field(label, value string) {
	if value == "" {
		value = "-"
	}
	d.pdf.SetFont("Helvetica", "B", bodySize)
	d.pdf.CellFormat(labelWidth, lineHeight, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", bodySize)
	d.pdf.MultiCell(0, lineHeight, d.tr(value), "", "L", false)
}

// Render writes the FIR with complainant, incident, accused and legal sections.
func Render(w io.Writer, fir *models.FIR) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle("First Information Report "+fir.FIRNumber, true)
	pdf.SetCreator("nyaya", true)
	pdf.AliasNbPages("")
	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Helvetica", "I", bodySize-2) //nolint:mnd // footnote size
		pdf.CellFormat(0, lineHeight, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, lineHeight*2, "FIRST INFORMATION REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.CellFormat(0, lineHeight, d.tr("(Under Section 173 BNSS)"), "", 1, "C", false, 0, "")

	d.heading("Registration")
	d.field("FIR Number", fir.FIRNumber)
	d.field("Registered on", fir.CreatedAt.Format("02 Jan 2006 15:04"))
	d.field("Status", string(fir.Status))

	d.heading("Complainant")
	d.field("Name", fir.ComplainantName)
	d.field("Contact number", fir.ContactNumber)
	d.field("Address", fir.Address)

	d.heading("Incident")
	d.field("Type", fir.IncidentType)
	d.field("Date and time", fir.IncidentDate+" "+fir.IncidentTime)
	d.field("Location", fir.Location)
	d.field("Complaint", fir.ComplaintText)

	d.heading("Accused")
	if len(fir.AccusedList) == 0 {
		d.field("", "Unknown")
	}
	for i, a := range fir.AccusedList {
		d.field(fmt.Sprintf("%d. %s", i+1, a.Name), joinNonEmpty(a.Address, a.Description))
	}

	d.heading("Legal sections")
	for _, s := range fir.LegalSections {
		d.field(s.SectionNumber, sectionText(s))
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render FIR document")
	}
	return nil
}

func sectionText(s models.FIRSection) string {
	text := s.Title
	if s.Punishment != "" {
		text += "\nPunishment: " + s.Punishment
	}
	switch s.OfficerAction { //nolint:exhaustive // accepted sections need no note
	case models.OfficerActionCorrected:
		text += "\nCorrected by officer from " + s.OriginalAIPrediction
	case models.OfficerActionManual:
		text += "\nAdded by officer"
	}
	return text
}

func joinNonEmpty(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(p string) bool { return p == "" }), ", ")
}
