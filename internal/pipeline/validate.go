package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"go-triage-pipeline/internal/model"
)

// ErrInvalidRequest marks an export request missing one of its inputs.
var ErrInvalidRequest = errors.New("invalid export request")

// validateRequest checks presence of the request fields. Model names are
// resolved later.
func validateRequest(req model.ExportRequest, table *model.Table) error {
	var missing []string
	if strings.TrimSpace(req.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(req.Ecosystem) == "" {
		missing = append(missing, "ecosystem")
	}
	if req.Start.IsZero() {
		missing = append(missing, "start")
	}
	if req.End.IsZero() {
		missing = append(missing, "end")
	}
	if table == nil {
		missing = append(missing, "table")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	// the ecosystem becomes part of a file name
	if strings.ContainsAny(req.Ecosystem, `/\`) {
		return fmt.Errorf("%w: ecosystem %q contains a path separator", ErrInvalidRequest, req.Ecosystem)
	}
	return nil
}
