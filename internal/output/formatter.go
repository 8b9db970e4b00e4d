package output

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// Formatter renders analysis results into a byte slice
type Formatter interface {
	Name() string
	Format(results *domain.AnalysisResults) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(results *domain.AnalysisResults) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(results *domain.AnalysisResults) ([]byte, error) {
	return f.F(results)
}

// reportFilePrefix is prepended to files written by WriteFormatted
const reportFilePrefix = "tgplan_report_"

var registry = map[string]Formatter{}

// aliases map alternate CLI names onto registered formatters
var aliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"all":             "console",
	"lite":            "console-lite",
	"summary":         "console-lite",
}

func register(f Formatter) {
	registry[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleVerboseFormatter{})
	register(CSVSummarizer{})
	register(DetailedCSVFormatter{})
	register(JSONFormatter{Pretty: true})
	register(HTMLFormatter{})
	register(PDFFormatter{})
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil when none matches
func GetFormatterByName(name string) Formatter {
	if f, ok := registry[name]; ok {
		return f
	}
	if target, ok := aliases[name]; ok {
		return registry[target]
	}
	return nil
}

// AvailableFormatterNames lists registered formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases in sorted order
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats results and writes them to a timestamped file in the
// working directory, returning the file name
func WriteFormatted(f Formatter, results *domain.AnalysisResults, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	filename := fmt.Sprintf("%s%s.%s", reportFilePrefix, time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// ExtensionFor returns the file extension conventionally used for a formatter
func ExtensionFor(name string) string {
	switch name {
	case "csv", "detailed-csv":
		return "csv"
	case "json":
		return "json"
	case "html":
		return "html"
	case "pdf":
		return "pdf"
	default:
		return "txt"
	}
}
