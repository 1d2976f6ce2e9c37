package batch

import (
	"fmt"

	"github.com/karupanerura/par5er/internal/types"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Entry is one named expression of a batch.
type Entry struct {
	Name   string
	Source string
}

// EntriesFromSources names each source by its 1-based position.
func EntriesFromSources(sources []string) []Entry {
	return lo.Map(sources, func(source string, i int) Entry {
		return Entry{Name: defaultEntryName(i), Source: source}
	})
}

func defaultEntryName(i int) string {
	return fmt.Sprintf("#%d", i+1)
}

type batchDef struct {
	Expressions []any `json:"expressions"`
}

type entryDef struct {
	Name   string `json:"name" mapstructure:"name"`
	Source string `json:"source" mapstructure:"source"`
}

func (d *batchDef) compile() ([]Entry, error) {
	if d.Expressions == nil {
		return nil, &types.Error{
			Tag: types.ValueErrorTag,
			Err: fmt.Errorf("expressions: required"),
		}
	}

	entries := make([]Entry, len(d.Expressions))
	for i, v := range d.Expressions {
		switch item := v.(type) {
		case string:
			entries[i] = Entry{Name: defaultEntryName(i), Source: item}

		case map[string]any:
			var def entryDef
			if err := mapstructure.Decode(item, &def); err != nil {
				return nil, &types.Error{
					Tag: types.TypeErrorTag,
					Err: fmt.Errorf("expressions[%d]: %w", i, err),
				}
			}
			if def.Source == "" {
				return nil, &types.Error{
					Tag: types.ValueErrorTag,
					Err: fmt.Errorf("expressions[%d]: source: required", i),
				}
			}
			if def.Name == "" {
				def.Name = defaultEntryName(i)
			}
			entries[i] = Entry{Name: def.Name, Source: def.Source}

		default:
			return nil, &types.Error{
				Tag: types.TypeErrorTag,
				Err: fmt.Errorf("expressions[%d]: unexpected type %T", i, v),
			}
		}
	}
	return entries, nil
}
