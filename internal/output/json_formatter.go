package output

import (
	"encoding/json"

	"github.com/rgehrsitz/tgplan/internal/domain"
)

// JSONFormatter serializes the full analysis results
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.AnalysisResults) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(results, "", "  ")
	}
	return json.Marshal(results)
}
