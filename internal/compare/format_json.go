package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty           bool // If true, format with indentation
	IncludeSchedules bool // If false, per-year rows are left out
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	out := *compSet
	if !jf.IncludeSchedules {
		out.BaseResult = withoutSchedule(compSet.BaseResult)
		out.AlternativeResults = make([]ComparisonResult, len(compSet.AlternativeResults))
		for i, r := range compSet.AlternativeResults {
			r.Schedule = nil
			out.AlternativeResults[i] = r
		}
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(&out, "", "  ")
	} else {
		data, err = json.Marshal(&out)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func withoutSchedule(r *ComparisonResult) *ComparisonResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Schedule = nil
	return &c
}
