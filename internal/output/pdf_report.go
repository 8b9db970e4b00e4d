package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/rgehrsitz/tgplan/internal/domain"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight

	coreFont   = "Arial"
	brandFont  = "Brand"
	logoHeight = 12.0
)

// ErrNoReportTotals is returned when no scenario carries a cascade result
var ErrNoReportTotals = errors.New("no cascade results to report")

// ReportPage is one scenario's page of the PDF report. The exporter prints
// these totals as given and never recomputes them.
type ReportPage struct {
	Scenario string
	Totals   domain.ReportTotals
}

// PDFReport renders report pages with static branding text
type PDFReport struct {
	pdf      *fpdf.Fpdf
	branding domain.ReportBranding
	font     string
	tr       func(string) string
	logo     string
	id       string
	date     time.Time
}

// GeneratePDFReport renders one page per ReportPage and returns the document
// together with its report ID
func GeneratePDFReport(branding domain.ReportBranding, pages []ReportPage, date time.Time) ([]byte, string, error) {
	if len(pages) == 0 {
		return nil, "", ErrNoReportTotals
	}
	if branding.Title == "" {
		branding.Title = domain.DefaultReportBranding().Title
	}

	r := &PDFReport{
		pdf:      fpdf.New("P", "mm", "A4", ""),
		branding: branding,
		id:       uuid.NewString(),
		date:     date,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(branding.Title, true)
	r.loadFont()
	r.loadLogo()

	for _, page := range pages {
		r.addPage(page)
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), r.id, nil
}

// loadFont registers the branding font when the file exists and parses,
// otherwise the core font is used
func (r *PDFReport) loadFont() {
	r.font = coreFont
	r.tr = r.pdf.UnicodeTranslatorFromDescriptor("")
	if r.branding.FontPath == "" {
		return
	}
	if _, err := os.Stat(r.branding.FontPath); err != nil {
		return
	}
	r.pdf.AddUTF8Font(brandFont, "", r.branding.FontPath)
	r.pdf.AddUTF8Font(brandFont, "B", r.branding.FontPath)
	if !r.pdf.Ok() {
		r.pdf.ClearError()
		return
	}
	r.font = brandFont
	r.tr = func(s string) string { return s }
}

// loadLogo registers the logo image when the file exists and decodes
func (r *PDFReport) loadLogo() {
	if r.branding.LogoPath == "" {
		return
	}
	if _, err := os.Stat(r.branding.LogoPath); err != nil {
		return
	}
	r.pdf.RegisterImageOptions(r.branding.LogoPath, fpdf.ImageOptions{ReadDpi: true})
	if !r.pdf.Ok() {
		r.pdf.ClearError()
		return
	}
	r.logo = r.branding.LogoPath
}

func (r *PDFReport) addPage(page ReportPage) {
	r.pdf.AddPage()

	x := marginLeft
	if r.logo != "" {
		r.pdf.ImageOptions(r.logo, marginLeft, marginTop, 0, logoHeight, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		x = marginLeft + 32
	}
	textWidth := contentWidth - (x - marginLeft)

	r.pdf.SetXY(x, marginTop)
	r.pdf.SetTextColor(0, 51, 102)
	if r.branding.Organization != "" {
		r.pdf.SetFont(r.font, "B", 14)
		r.pdf.CellFormat(textWidth, 7, r.tr(r.branding.Organization), "", 2, "L", false, 0, "")
	}
	r.pdf.SetFont(r.font, "", 10)
	r.pdf.SetTextColor(80, 80, 80)
	if r.branding.Tagline != "" || r.branding.Contact != "" {
		line := r.branding.Tagline
		if r.branding.Contact != "" {
			if line != "" {
				line += " | "
			}
			line += r.branding.Contact
		}
		r.pdf.CellFormat(textWidth, 6, r.tr(line), "", 2, "L", false, 0, "")
	}
	r.pdf.CellFormat(textWidth, 6, "Report date: "+r.date.Format("2006-01-02"), "", 2, "L", false, 0, "")
	r.pdf.CellFormat(textWidth, 6, "Report ID: "+r.id, "", 1, "L", false, 0, "")
	r.pdf.Ln(6)

	r.drawSectionHeader(r.branding.Title)
	r.pdf.SetFont(r.font, "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.CellFormat(contentWidth, 7, r.tr("Scenario: "+page.Scenario), "", 1, "L", false, 0, "")
	r.pdf.Ln(3)

	t := page.Totals
	widths := []float64{contentWidth * 0.4, contentWidth * 0.3, contentWidth * 0.3}
	r.drawTableHeader([]string{"", "No plan", "Plan"}, widths)
	r.drawTableRow([]string{"Gen1 gift tax", "", FormatCurrency(t.GiftTaxPlan)}, widths, false)
	r.drawTableRow([]string{"Gen1 estate tax", FormatCurrency(t.Gen1EstateTaxNoPlan), FormatCurrency(t.Gen1EstateTaxPlan)}, widths, false)
	r.drawTableRow([]string{"Gen2 estate tax", FormatCurrency(t.Gen2EstateTaxNoPlan), FormatCurrency(t.Gen2EstateTaxPlan)}, widths, false)
	r.drawTableRow([]string{"Gen3 final", FormatCurrency(t.Gen3FinalNoPlan), FormatCurrency(t.Gen3FinalPlan)}, widths, false)
	r.drawTableRow([]string{"Total tax", FormatCurrency(t.TotalTaxNoPlan), FormatCurrency(t.TotalTaxPlan)}, widths, true)
	r.pdf.Ln(4)

	r.pdf.SetFont(r.font, "B", 12)
	if t.Savings.IsNegative() {
		r.pdf.SetTextColor(176, 0, 32)
		r.pdf.CellFormat(contentWidth, 8, "Plan increases total tax by "+FormatCurrency(t.Savings.Neg()), "", 1, "L", false, 0, "")
	} else {
		r.pdf.SetTextColor(27, 94, 32)
		r.pdf.CellFormat(contentWidth, 8, "Overall savings: "+FormatCurrency(t.Savings), "", 1, "L", false, 0, "")
	}
}

func (r *PDFReport) drawSectionHeader(title string) {
	r.pdf.SetFont(r.font, "B", 13)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(4)
}

func (r *PDFReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont(r.font, "B", 10)
	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 7, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)
	if isBold {
		r.pdf.SetFont(r.font, "B", 10)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont(r.font, "", 10)
	}
	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

// ReportPages collects the totals of every scenario with a cascade result
func ReportPages(results *domain.AnalysisResults) []ReportPage {
	var pages []ReportPage
	for _, sc := range results.Scenarios {
		if sc.Cascade == nil {
			continue
		}
		pages = append(pages, ReportPage{Scenario: sc.Name, Totals: sc.Cascade.Totals()})
	}
	return pages
}

// PDFFormatter exposes the PDF report through the formatter registry
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(results *domain.AnalysisResults) ([]byte, error) {
	data, _, err := GeneratePDFReport(results.Branding, ReportPages(results), time.Now())
	if err != nil {
		return nil, fmt.Errorf("pdf report: %w", err)
	}
	return data, nil
}
