package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliCSV = `repo_name,event_type,status,url,security_model_flag,cve_model_flag,triage_feedback_comments,id,number,api_url,created_at,updated_at,closed_at,creator_name,creator_url
knative/serving,issue,open,https://github.com/knative/serving/issues/1,1,1,,101,1,https://api.github.com/repos/knative/serving/issues/1,2024-03-01T00:00:00Z,2024-03-01T00:00:00Z,,jdoe,https://github.com/jdoe
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportCommandLocal(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(input, []byte(cliCSV), 0644))
	t.Setenv("BASE_TRIAGE_DIR", filepath.Join(dir, "out"))

	out, err := runCLI(t, "--config", filepath.Join(dir, "none.yaml"),
		"export", "--input", input, "--ecosystem", "knative",
		"--model", "bert_torch", "--start", "2024-03-05", "--days", "7")
	require.NoError(t, err, out)

	want := filepath.Join(dir, "out", "20240305-20240227", "bert_model_inference_probable_cves_20240305-20240227_knative.csv")
	assert.True(t, strings.HasPrefix(out, want), out)
	_, err = os.Stat(want)
	assert.NoError(t, err)
}

func TestModelsCommand(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "models")
	require.NoError(t, err)
	assert.Contains(t, out, "bert_torch\tbert_model")
	assert.Contains(t, out, "gru\tgru_model")
}
