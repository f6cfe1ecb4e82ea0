package pipeline

import (
	"fmt"

	"go-triage-pipeline/internal/model"
)

// PrepareTriageTable projects a result table onto the exported column set and
// stamps the ecosystem on every row. The input table is left untouched.
func PrepareTriageTable(table *model.Table, ecosystem string) (*model.Table, error) {
	projected, err := table.Select(model.RequiredColumns...)
	if err != nil {
		return nil, fmt.Errorf("failed to select triage columns: %w", err)
	}
	return projected.WithConstant(model.EcosystemColumn, ecosystem), nil
}
