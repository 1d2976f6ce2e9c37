package batch_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/par5er/internal/batch"
	"github.com/karupanerura/par5er/internal/types"
)

func TestParseBatchJSON(t *testing.T) {
	t.Parallel()

	entries, err := batch.ParseBatchJSON(strings.NewReader(`{
		"expressions": [
			"1+2",
			{"name": "power", "source": "2^-3"},
			{"source": "--5"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	expected := []batch.Entry{
		{Name: "#1", Source: "1+2"},
		{Name: "power", Source: "2^-3"},
		{Name: "#3", Source: "--5"},
	}
	if diff := cmp.Diff(expected, entries); diff != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestParseBatchYAML(t *testing.T) {
	t.Parallel()

	entries, err := batch.ParseBatchYAML(strings.NewReader(`
expressions:
  - 2*(3+4)
  - name: composite
    source: "- -- --(3*(12+23^2^2^-2)+6/(3*(1-5)^3*2)-(((1+3)^2)^2)*(5+6-(5+6))^2)+1"
`))
	if err != nil {
		t.Fatal(err)
	}

	expected := []batch.Entry{
		{Name: "#1", Source: "2*(3+4)"},
		{Name: "composite", Source: "- -- --(3*(12+23^2^2^-2)+6/(3*(1-5)^3*2)-(((1+3)^2)^2)*(5+6-(5+6))^2)+1"},
	}
	if diff := cmp.Diff(expected, entries); diff != "" {
		t.Errorf("unexpected entries (-want +got):\n%s", diff)
	}
}

func TestParseBatchError(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		source string
		tag    types.ErrorTag
	}{
		{
			name:   "missing expressions",
			source: `{}`,
			tag:    types.ValueErrorTag,
		},
		{
			name:   "number item",
			source: `{"expressions": [1]}`,
			tag:    types.TypeErrorTag,
		},
		{
			name:   "missing source",
			source: `{"expressions": [{"name": "x"}]}`,
			tag:    types.ValueErrorTag,
		},
		{
			name:   "non-string source",
			source: `{"expressions": [{"source": ["1"]}]}`,
			tag:    types.TypeErrorTag,
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := batch.ParseBatchJSON(strings.NewReader(tt.source))
			if err == nil {
				t.Fatalf("should be error but got %v", entries)
			}

			var typedErr *types.Error
			if !errors.As(err, &typedErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if typedErr.Tag != tt.tag {
				t.Errorf("expect tag %s but got %s", tt.tag, typedErr.Tag)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, content := range map[string]string{
		"batch.json": `{"expressions": ["1+1"]}`,
		"batch.yml":  "expressions:\n  - 1+1\n",
		"batch.txt":  "1+1\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"batch.json", "batch.yml"} {
		entries, err := batch.LoadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff([]batch.Entry{{Name: "#1", Source: "1+1"}}, entries); diff != "" {
			t.Errorf("%s: unexpected entries (-want +got):\n%s", name, diff)
		}
	}

	if _, err := batch.LoadFile(filepath.Join(dir, "batch.txt")); err == nil {
		t.Error("should be error for unsupported extension")
	}
	if _, err := batch.LoadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expect not exist error but got %v", err)
	}
}
