package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-triage-pipeline/internal/config"
	"go-triage-pipeline/internal/model"
)

func TestExportEcosystems(t *testing.T) {
	root := t.TempDir()
	fixture := loadFixture(t)
	rng := model.LastWeek(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	rec := &memRecorder{}

	em := NewExportManager(LocalDestination{Root: root}, nil)
	em.Recorder = rec

	results, err := em.ExportEcosystems(context.Background(), rng, "bert_torch", map[string]*model.Table{
		"serving":  fixture,
		"eventing": fixture,
		"knative":  fixture,
	}, 2)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "eventing", results[0].Ecosystem)
	assert.Equal(t, "knative", results[1].Ecosystem)
	assert.Equal(t, "serving", results[2].Ecosystem)
	assert.Len(t, rec.results, 3)

	for _, res := range results {
		eco, err := res.Table.Unique(model.EcosystemColumn)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{res.Ecosystem}, eco)

		_, err = os.Stat(filepath.Join(root, "20240305-20240227",
			"bert_model_inference_probable_cves_20240305-20240227_"+res.Ecosystem+".csv"))
		assert.NoError(t, err)
	}
}

func TestExportEcosystemsStopsOnError(t *testing.T) {
	broken := model.NewTable([]string{"id"}, []model.GenericRecord{{"id": "1"}})
	rng := model.LastWeek(time.Now())

	_, err := NewExportManager(LocalDestination{Root: t.TempDir()}, nil).ExportEcosystems(
		context.Background(), rng, "bert", map[string]*model.Table{
			"knative": broken,
		}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingColumn)
	assert.Contains(t, err.Error(), "export knative")
}

func TestExportEcosystemsUnknownModel(t *testing.T) {
	rng := model.LastWeek(time.Now())
	results, err := NewExportManager(LocalDestination{Root: t.TempDir()}, nil).ExportEcosystems(
		context.Background(), rng, "nope", map[string]*model.Table{
			"a": loadFixture(t),
			"b": loadFixture(t),
		}, 1)
	assert.ErrorIs(t, err, model.ErrUnknownModel)
	assert.Empty(t, results)
}

func TestNewDestination(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.BaseDir = "/srv/triage"
	cfg.ObjectStore.Bucket = "cve-results"

	dest, err := NewDestination(model.DestinationLocal, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, model.DestinationLocal, dest.Kind())
	base, err := dest.Base()
	require.NoError(t, err)
	assert.Equal(t, "/srv/triage", base)

	dest, err = NewDestination(model.DestinationObjectStore, cfg, &fakePutter{})
	require.NoError(t, err)
	assert.Equal(t, model.DestinationObjectStore, dest.Kind())
	base, err = dest.Base()
	require.NoError(t, err)
	assert.Equal(t, "s3://cve-results/triage_results", base)

	_, err = NewDestination(model.DestinationObjectStore, cfg, nil)
	assert.Error(t, err)

	cfg.ObjectStore.Bucket = ""
	_, err = NewDestination(model.DestinationObjectStore, cfg, &fakePutter{})
	assert.Error(t, err)

	_, err = NewDestination("ftp", cfg, nil)
	assert.Error(t, err)
}

func TestLocalDestinationReadsEnvPerCall(t *testing.T) {
	dest := LocalDestination{}

	t.Setenv(BaseDirEnv, "first")
	base, err := dest.Base()
	require.NoError(t, err)
	assert.Equal(t, "first", base)

	t.Setenv(BaseDirEnv, "second")
	base, err = dest.Base()
	require.NoError(t, err)
	assert.Equal(t, "second", base)
}
