package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-triage-pipeline/internal/model"
	"go-triage-pipeline/internal/pipeline"
	"go-triage-pipeline/internal/store"
)

var (
	inputPath string
	inputs    map[string]string
	ecosystem string
	modelName string
	startFlag string
	endFlag   string
	days      int
	remote    bool
	record    bool
	parallel  int
)

// exportCmd writes one ecosystem's results
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one ecosystem's triage results",
	Example: `  BASE_TRIAGE_DIR=out triage export --input results.csv --ecosystem knative --model bert_torch
  triage export --input results.csv --ecosystem knative --start 2024-03-05 --days 7 --remote`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// batchCmd writes several ecosystems concurrently
var batchCmd = &cobra.Command{
	Use:     "batch",
	Short:   "Export several ecosystems over the same range",
	Example: `  triage batch --input knative=knative.csv --input tekton=tekton.csv --parallel 2`,
	Args:    cobra.NoArgs,
	RunE:    runBatch,
}

// modelsCmd lists accepted model names
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List accepted model names and their file labels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range model.ModelNames() {
			label, _ := model.ModelLabel(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, label)
		}
		return nil
	},
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modelName, "model", "", "inference model name (default from config)")
	cmd.Flags().StringVar(&startFlag, "start", "", "range start, YYYY-MM-DD or RFC3339 (default now)")
	cmd.Flags().StringVar(&endFlag, "end", "", "range end, YYYY-MM-DD or RFC3339 (default start minus --days)")
	cmd.Flags().IntVar(&days, "days", 7, "days back from start when --end is not set")
	cmd.Flags().BoolVar(&remote, "remote", false, "write to the object store instead of BASE_TRIAGE_DIR")
	cmd.Flags().BoolVar(&record, "record", false, "record the export in the history database")
}

func init() {
	exportCmd.Flags().StringVar(&inputPath, "input", "", "triage results CSV")
	exportCmd.Flags().StringVar(&ecosystem, "ecosystem", "", "ecosystem label, e.g. knative")
	_ = exportCmd.MarkFlagRequired("input")
	_ = exportCmd.MarkFlagRequired("ecosystem")
	addRangeFlags(exportCmd)

	batchCmd.Flags().StringToStringVar(&inputs, "input", nil, "ecosystem=path pairs")
	batchCmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent exports")
	_ = batchCmd.MarkFlagRequired("input")
	addRangeFlags(batchCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rng, err := resolveRange(startFlag, endFlag, days, time.Now())
	if err != nil {
		return err
	}

	table, err := pipeline.ReadCSVFile(inputPath)
	if err != nil {
		return err
	}

	em, cleanup, err := newExportManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := em.Export(ctx, model.ExportRequest{
		Start:     rng.Start,
		End:       rng.End,
		Model:     effectiveModel(),
		Ecosystem: ecosystem,
	}, table)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\n", result.Path, result.RecordCount)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rng, err := resolveRange(startFlag, endFlag, days, time.Now())
	if err != nil {
		return err
	}

	tables := make(map[string]*model.Table, len(inputs))
	for eco, path := range inputs {
		table, err := pipeline.ReadCSVFile(path)
		if err != nil {
			return err
		}
		tables[eco] = table
	}

	em, cleanup, err := newExportManager(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := em.ExportEcosystems(ctx, rng, effectiveModel(), tables, parallel)
	for _, result := range results {
		status := "ok"
		if !result.Success {
			status = "failed: " + result.Error
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d rows\t%s\n", result.Ecosystem, result.Path, result.RecordCount, status)
	}
	return err
}

func effectiveModel() string {
	if modelName != "" {
		return modelName
	}
	return cfg.Output.DefaultModel
}

// newExportManager builds the destination from --remote and, with --record,
// attaches the history database.
func newExportManager(ctx context.Context) (*pipeline.ExportManager, func(), error) {
	kind := model.DestinationLocal
	var client pipeline.ObjectPutter
	if remote {
		kind = model.DestinationObjectStore
		c, err := pipeline.NewS3Client(ctx, cfg.ObjectStore)
		if err != nil {
			return nil, nil, err
		}
		client = c
	}

	dest, err := pipeline.NewDestination(kind, cfg, client)
	if err != nil {
		return nil, nil, err
	}

	em := pipeline.NewExportManager(dest, logger)
	cleanup := func() {}
	if record {
		db, err := store.Open(cfg.Store.DBPath)
		if err != nil {
			return nil, nil, err
		}
		em.Recorder = db
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close export store", zap.Error(err))
			}
		}
	}
	return em, cleanup, nil
}
