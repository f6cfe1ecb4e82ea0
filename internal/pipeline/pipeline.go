package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-triage-pipeline/internal/model"
)

// ExportEcosystems writes one export per ecosystem over the same range and
// model, at most limit at a time (limit <= 0 means no limit). The first
// failure cancels exports that have not started yet. Results come back sorted
// by ecosystem and include failed writes.
func (em *ExportManager) ExportEcosystems(
	ctx context.Context,
	rng model.TimeRange,
	modelName string,
	tables map[string]*model.Table,
	limit int,
) ([]*model.ExportResult, error) {
	ecosystems := make([]string, 0, len(tables))
	for eco := range tables {
		ecosystems = append(ecosystems, eco)
	}
	sort.Strings(ecosystems)

	em.log().Info("Starting batch export",
		zap.String("range", rng.Label()),
		zap.String("model", modelName),
		zap.Strings("ecosystems", ecosystems))

	results := make([]*model.ExportResult, len(ecosystems))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, eco := range ecosystems {
		i, eco := i, eco
		g.Go(func() error {
			res, err := em.Export(gctx, model.ExportRequest{
				Start:     rng.Start,
				End:       rng.End,
				Model:     modelName,
				Ecosystem: eco,
			}, tables[eco])
			results[i] = res
			if err != nil {
				return fmt.Errorf("export %s: %w", eco, err)
			}
			return nil
		})
	}

	err := g.Wait()

	done := make([]*model.ExportResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			done = append(done, res)
		}
	}

	em.log().Info("Batch export finished",
		zap.Int("written", countSuccess(done)),
		zap.Int("requested", len(ecosystems)))
	return done, err
}

func countSuccess(results []*model.ExportResult) int {
	n := 0
	for _, res := range results {
		if res.Success {
			n++
		}
	}
	return n
}
