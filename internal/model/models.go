package model

import (
	"fmt"
	"time"
)

// DestinationKind selects where an export is persisted
type DestinationKind string

const (
	DestinationLocal       DestinationKind = "local"
	DestinationObjectStore DestinationKind = "object_store"
)

// ParseDestinationKind accepts the two known kinds; empty means local.
func ParseDestinationKind(s string) (DestinationKind, error) {
	switch DestinationKind(s) {
	case "", DestinationLocal:
		return DestinationLocal, nil
	case DestinationObjectStore:
		return DestinationObjectStore, nil
	default:
		return "", fmt.Errorf("unknown destination: %q", s)
	}
}

// ExportRequest is the struct for POST /api/v1/exports
type ExportRequest struct {
	Input       string          `json:"input,omitempty"` // CSV path, API only
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Model       string          `json:"model"`
	Ecosystem   string          `json:"ecosystem"`
	Destination DestinationKind `json:"destination,omitempty"`
}

// Range returns the request's time range
func (r ExportRequest) Range() TimeRange {
	return TimeRange{Start: r.Start, End: r.End}
}
