package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"pct":    FormatPercentage,
	"signed": FormatSignedCurrency,
	"span":   BracketRange,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.AnalysisResults) ([]byte, error) {
	var buf bytes.Buffer
	branding := results.Branding
	if branding.Title == "" {
		branding.Title = domain.DefaultReportBranding().Title
	}
	data := struct {
		*domain.AnalysisResults
		Branding    domain.ReportBranding
		Assumptions []string
	}{results, branding, Assumptions(results.Regulatory)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
