package annotate

import (
	"time"
)

// metadataDateFormat matches the timestamp format used in upstream metadata
// exports.
const metadataDateFormat = "2006-01-02 15:04:05"

// QueryInfo describes one remote annotation query run.
type QueryInfo struct {
	// Size is the number of unique identifiers that were queried.
	Size int `json:"size"`
	// InputType is the namespace the identifiers were taken from, where a
	// datasource distinguishes input types.
	InputType string `json:"input_type,omitempty"`
	// Project names the queried project for project-scoped services
	// (e.g. a MINERVA disease map).
	Project string `json:"project,omitempty"`
	// Time is the elapsed wall-clock duration of all queries.
	Time string `json:"time"`
	// Date is the completion timestamp.
	Date string `json:"date"`
	// URL is the endpoint the queries were sent to.
	URL string `json:"url"`
}

// Metadata is the uniform per-invocation record describing a datasource
// annotation run. It is created fresh on every call and never merged across
// calls.
type Metadata struct {
	Datasource string            `json:"datasource,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Query      *QueryInfo        `json:"query,omitempty"`
}

// Empty reports whether the record carries no information, as returned when
// an endpoint's availability probe failed before any query ran.
func (m *Metadata) Empty() bool {
	return m.Datasource == "" && len(m.Metadata) == 0 && m.Query == nil
}

// NewQueryInfo assembles query statistics for a run that started at start
// and has just completed.
func NewQueryInfo(size int, url string, start time.Time) *QueryInfo {
	return &QueryInfo{
		Size: size,
		Time: time.Since(start).String(),
		Date: time.Now().Format(metadataDateFormat),
		URL:  url,
	}
}
