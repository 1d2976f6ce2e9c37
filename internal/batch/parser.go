package batch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

func ParseBatchYAML(r io.Reader) ([]Entry, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseBatchJSON(bytes.NewReader(jsonBytes))
}

func ParseBatchJSON(r io.Reader) ([]Entry, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var root batchDef
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	return root.compile()
}

// LoadFile reads a batch file, choosing the format by its extension.
func LoadFile(filePath string) ([]Entry, error) {
	var parseBatch func(io.Reader) ([]Entry, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseBatch = ParseBatchJSON
	case ".yaml", ".yml":
		parseBatch = ParseBatchYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	entries, err := parseBatch(f)
	if err != nil {
		return nil, fmt.Errorf("batch.ParseBatch: %w", err)
	}
	return entries, nil
}
