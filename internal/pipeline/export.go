package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-triage-pipeline/internal/model"
)

// Recorder keeps a history of export attempts
type Recorder interface {
	SaveExport(result *model.ExportResult) error
}

// ExportManager handles triage export operations against one destination
type ExportManager struct {
	Destination Destination
	Recorder    Recorder // optional
	Logger      *zap.Logger
}

// NewExportManager creates an export manager. A nil logger discards output.
func NewExportManager(dest Destination, logger *zap.Logger) *ExportManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportManager{
		Destination: dest,
		Logger:      logger,
	}
}

// WriteOutputCSV filters table to the triage columns, stamps the ecosystem,
// writes it as CSV to dest and returns the derived table. The derived table is
// returned even when the write itself fails.
func WriteOutputCSV(ctx context.Context, start, end time.Time, modelName, ecosystem string, table *model.Table, dest Destination) (*model.Table, error) {
	result, err := NewExportManager(dest, nil).Export(ctx, model.ExportRequest{
		Start:     start,
		End:       end,
		Model:     modelName,
		Ecosystem: ecosystem,
	}, table)
	if result == nil {
		return nil, err
	}
	return result.Table, err
}

// OutputLocation returns the range directory and file name an export of
// modelName/ecosystem over rng is written to.
func OutputLocation(rng model.TimeRange, modelName, ecosystem string) (dir, file string, err error) {
	label, err := model.ModelLabel(modelName)
	if err != nil {
		return "", "", err
	}
	return rng.Label(), outputFileName(label, rng, ecosystem), nil
}

func outputFileName(label string, rng model.TimeRange, ecosystem string) string {
	return fmt.Sprintf("%s_inference_probable_cves_%s_%s.csv", label, rng.Label(), ecosystem)
}

// Export runs a single export. Schema and model errors return a nil result
// and write nothing; a failed write returns the result with Success unset.
func (em *ExportManager) Export(ctx context.Context, req model.ExportRequest, table *model.Table) (*model.ExportResult, error) {
	if em.Destination == nil {
		return nil, fmt.Errorf("%w: no destination", ErrInvalidRequest)
	}
	if err := validateRequest(req, table); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := PrepareTriageTable(table, req.Ecosystem)
	if err != nil {
		return nil, err
	}

	label, err := model.ModelLabel(req.Model)
	if err != nil {
		return nil, err
	}
	rng := req.Range()
	dir := rng.Label()
	file := outputFileName(label, rng, req.Ecosystem)

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, out); err != nil {
		return nil, err
	}

	result := &model.ExportResult{
		ID:          uuid.New().String(),
		Model:       req.Model,
		ModelLabel:  label,
		Ecosystem:   req.Ecosystem,
		Range:       rng,
		Destination: em.Destination.Kind(),
		RecordCount: out.Len(),
		Table:       out,
	}

	target, err := em.Destination.Write(ctx, dir, file, buf.Bytes())
	result.Path = target
	result.ExportedAt = time.Now().UTC()
	result.Success = err == nil

	if err != nil {
		result.Error = err.Error()
		em.log().Error("Export failed",
			zap.String("ecosystem", req.Ecosystem),
			zap.String("model", req.Model),
			zap.String("destination", string(result.Destination)),
			zap.Error(err))
	} else {
		em.log().Info("Export written",
			zap.String("ecosystem", req.Ecosystem),
			zap.String("path", target),
			zap.Int("records", result.RecordCount))
	}

	em.record(result)
	return result, err
}

func (em *ExportManager) record(result *model.ExportResult) {
	if em.Recorder == nil {
		return
	}
	if err := em.Recorder.SaveExport(result); err != nil {
		em.log().Warn("Failed to record export", zap.String("id", result.ID), zap.Error(err))
	}
}

// EncodeCSV writes the table with a header row and no index column.
// Values are rendered with %v; nil becomes an empty cell.
func EncodeCSV(w io.Writer, t *model.Table) error {
	writer := csv.NewWriter(w)

	columns := t.Columns()
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range t.Rows() {
		row := make([]string, len(columns))
		for i, col := range columns {
			if value, exists := rec[col]; exists && value != nil {
				row[i] = fmt.Sprintf("%v", value)
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (em *ExportManager) log() *zap.Logger {
	if em.Logger == nil {
		return zap.NewNop()
	}
	return em.Logger
}
