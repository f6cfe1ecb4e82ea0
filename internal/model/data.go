package model

import "time"

// Column set every triage result export carries, in output order.
var RequiredColumns = []string{
	"repo_name",
	"event_type",
	"status",
	"url",
	"security_model_flag",
	"cve_model_flag",
	"triage_feedback_comments",
	"id",
	"number",
	"api_url",
	"created_at",
	"updated_at",
	"closed_at",
	"creator_name",
	"creator_url",
}

// EcosystemColumn is stamped onto every exported row
const EcosystemColumn = "ecosystem"

// dateLayout is the YYYYMMDD form used in directory and file names
const dateLayout = "20060102"

// TimeRange brackets one triage run. Ordering of Start and End is not checked.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LastWeek returns the range the nightly run uses: now back to seven days ago.
func LastWeek(now time.Time) TimeRange {
	return TimeRange{Start: now, End: now.AddDate(0, 0, -7)}
}

// Label formats the range as YYYYMMDD-YYYYMMDD
func (r TimeRange) Label() string {
	return r.Start.Format(dateLayout) + "-" + r.End.Format(dateLayout)
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	ID          string          `json:"id"`
	Model       string          `json:"model"`
	ModelLabel  string          `json:"model_label"`
	Ecosystem   string          `json:"ecosystem"`
	Range       TimeRange       `json:"range"`
	Destination DestinationKind `json:"destination"`
	Path        string          `json:"path"` // file path or object URI
	RecordCount int             `json:"record_count"`
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	ExportedAt  time.Time       `json:"exported_at"`
	Table       *Table          `json:"-"`
}
