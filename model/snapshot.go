package model

import "time"

// Snapshot represents an archived copy of a previously rendered report
type Snapshot struct {
	// Directory name (e.g., "allure-report-2024-01-01_10-00-00")
	Name string `json:"name"`
	// Absolute or caller-relative path of the snapshot directory
	Path string `json:"path"`
	// Creation time of the archived report, parsed from Name
	CreatedAt time.Time `json:"created_at"`
	// Report title found in the snapshot's summary, if any
	ReportName string `json:"report_name,omitempty"`
	// Aggregate counts found in the snapshot's summary, if any
	Statistic *Statistic `json:"statistic,omitempty"`
}
