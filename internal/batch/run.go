package batch

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/karupanerura/par5er/internal/expression"
	"github.com/karupanerura/par5er/internal/types"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one entry. Tree is the rendered parse tree and
// is empty when parsing failed; Value is meaningful only when Err is nil.
type Result struct {
	Name   string
	Source string
	Tree   string
	Value  float64
	Err    error
}

type resultJSON struct {
	Name   string        `json:"name"`
	Source string        `json:"source"`
	Tree   string        `json:"tree,omitempty"`
	Result *types.Number `json:"result,omitempty"`
	Error  any           `json:"error,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	v := resultJSON{
		Name:   r.Name,
		Source: r.Source,
		Tree:   r.Tree,
	}
	if r.Err != nil {
		v.Error = types.AsException(r.Err).Exception()
	} else {
		n := types.Number(r.Value)
		v.Result = &n
	}
	return json.Marshal(v)
}

// Run evaluates entries concurrently, at most concurrency at a time
// (unlimited when concurrency <= 0). Results keep the order of entries and
// carry per-entry failures; only cancellation of ctx fails the whole run.
func Run(ctx context.Context, entries []Entry, concurrency int) ([]Result, error) {
	results := make([]Result, len(entries))

	eg, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for i, entry := range entries {
		i := i
		entry := entry
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Evaluate(entry)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func Evaluate(entry Entry) Result {
	result := Result{Name: entry.Name, Source: entry.Source}

	expr, err := expression.ParseExpr(entry.Source)
	if err != nil {
		result.Err = err
		return result
	}
	result.Tree = expr.String()

	result.Value, result.Err = expression.Evaluate(expr)
	return result
}

// Failed reports whether any result carries an error.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
