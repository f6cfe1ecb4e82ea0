package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownModel is returned for model names with no output label.
var ErrUnknownModel = errors.New("unknown model")

// modelLabels maps every accepted inference model name to the label used in
// output file names. Names absent here are rejected.
var modelLabels = map[string]string{
	"bert":       "bert_model",
	"bert_torch": "bert_model",
	"gru":        "gru_model",
}

// ModelLabel returns the file-name label for an inference model
func ModelLabel(name string) (string, error) {
	label, ok := modelLabels[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return label, nil
}

// ModelNames lists the accepted model names, sorted
func ModelNames() []string {
	names := make([]string, 0, len(modelLabels))
	for name := range modelLabels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
