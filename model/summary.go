package model

import "encoding/json"

// Summary represents widgets/summary.json inside a rendered report.
// The renderer creates it; reportkeeper only rewrites ReportName.
type Summary struct {
	// Display title of the report
	ReportName *string `json:"reportName,omitempty"`
	// Test runs aggregated into the report, kept opaque
	TestRuns []json.RawMessage `json:"testRuns,omitempty"`
	// Aggregate result counts
	Statistic *Statistic `json:"statistic,omitempty"`
	// Timing information, kept opaque
	Time json.RawMessage `json:"time,omitempty"`
}

// Statistic contains the aggregate result counts of a report
type Statistic struct {
	Failed  int `json:"failed"`
	Broken  int `json:"broken"`
	Skipped int `json:"skipped"`
	Passed  int `json:"passed"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Name returns the report name or an empty string when unset.
func (s *Summary) Name() string {
	if s == nil || s.ReportName == nil {
		return ""
	}
	return *s.ReportName
}
