package filter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/hugr-lab/rowfilter/table"
)

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Allocator for filtered tables.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for debug tracing of parse and evaluation.
	// OPTIONAL: Logging is discarded if nil.
	Logger *slog.Logger

	// Parallel evaluates the two sides of AND/OR concurrently.
	// Results are identical to sequential evaluation.
	Parallel bool
}

// Engine parses, evaluates and applies filters. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	allocator memory.Allocator
	logger    *slog.Logger
	parallel  bool
}

// NewEngine creates an Engine. A nil config uses defaults.
func NewEngine(config *EngineConfig) *Engine {
	if config == nil {
		config = &EngineConfig{}
	}
	e := &Engine{
		allocator: config.Allocator,
		logger:    config.Logger,
		parallel:  config.Parallel,
	}
	if e.allocator == nil {
		e.allocator = memory.DefaultAllocator
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

var defaultEngine = NewEngine(nil)

// Apply filters tbl with the filter text using the default engine.
// See Engine.Apply.
func Apply(text string, tbl *table.Table) (*table.Table, error) {
	return defaultEngine.Apply(context.Background(), text, tbl)
}

// Evaluate computes the row mask for the filter text using the default engine.
// See Engine.Evaluate.
func Evaluate(text string, tbl *table.Table) (Mask, error) {
	return defaultEngine.Evaluate(text, tbl)
}

// Apply returns a new table with the rows of tbl selected by text, in original
// order and with every column. Blank text returns tbl itself, retained. The
// input table is never modified; the caller releases the result.
//
// Parse and evaluation failures are returned as *Error.
func (e *Engine) Apply(ctx context.Context, text string, tbl *table.Table) (*table.Table, error) {
	if strings.TrimSpace(text) == "" {
		tbl.Retain()
		return tbl, nil
	}

	expr, err := e.parse(text)
	if err != nil {
		return nil, err
	}
	return e.ApplyExpression(ctx, expr, tbl)
}

// ApplyExpression is Apply for an already parsed expression.
func (e *Engine) ApplyExpression(ctx context.Context, expr Expression, tbl *table.Table) (*table.Table, error) {
	mask, err := e.EvaluateExpression(expr, tbl)
	if err != nil {
		return nil, err
	}

	out, err := tbl.Filter(ctx, e.allocator, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize filtered table: %w", err)
	}

	e.logger.Debug("Filter applied",
		"expression", expr.String(),
		"rows_in", tbl.NumRows(),
		"rows_out", out.NumRows(),
	)
	return out, nil
}

// Evaluate returns the row mask for text without materializing a table.
// Blank text selects every row.
func (e *Engine) Evaluate(text string, tbl *table.Table) (Mask, error) {
	if strings.TrimSpace(text) == "" {
		return NewMask(tbl.NumRows(), true), nil
	}

	expr, err := e.parse(text)
	if err != nil {
		return nil, err
	}
	return e.EvaluateExpression(expr, tbl)
}

// EvaluateExpression evaluates expr bottom-up against tbl.
func (e *Engine) EvaluateExpression(expr Expression, tbl *table.Table) (Mask, error) {
	mask, err := e.eval(expr, tbl)
	if err != nil {
		e.logger.Debug("Filter evaluation failed", "expression", expr.String(), "error", err)
		return nil, &Error{Stage: StageEval, Err: err}
	}
	return mask, nil
}

func (e *Engine) parse(text string) (Expression, error) {
	expr, err := Parse(text)
	if err != nil {
		e.logger.Debug("Filter parse failed", "text", text, "error", err)
		return nil, &Error{Stage: StageParse, Err: err}
	}
	e.logger.Debug("Filter parsed", "text", text, "expression", expr.String())
	return expr, nil
}

func (e *Engine) eval(expr Expression, tbl *table.Table) (Mask, error) {
	switch n := expr.(type) {
	case *Comparison:
		return EvaluateComparison(n, tbl)
	case *And:
		left, right, err := e.evalPair(n.Left, n.Right, tbl)
		if err != nil {
			return nil, err
		}
		return left.And(right), nil
	case *Or:
		left, right, err := e.evalPair(n.Left, n.Right, tbl)
		if err != nil {
			return nil, err
		}
		return left.Or(right), nil
	case *Not:
		inner, err := e.eval(n.Inner, tbl)
		if err != nil {
			return nil, err
		}
		return inner.Not(), nil
	default:
		return nil, fmt.Errorf("unsupported expression type %T", expr)
	}
}

// evalPair evaluates both sides fully, left first. In parallel mode the sides
// run concurrently and a left error still wins over a right error.
func (e *Engine) evalPair(l, r Expression, tbl *table.Table) (Mask, Mask, error) {
	if !e.parallel {
		left, err := e.eval(l, tbl)
		if err != nil {
			return nil, nil, err
		}
		right, err := e.eval(r, tbl)
		if err != nil {
			return nil, nil, err
		}
		return left, right, nil
	}

	var (
		left, right       Mask
		leftErr, rightErr error
		g                 errgroup.Group
	)
	g.Go(func() error {
		left, leftErr = e.eval(l, tbl)
		return leftErr
	})
	g.Go(func() error {
		right, rightErr = e.eval(r, tbl)
		return rightErr
	})
	_ = g.Wait()

	if leftErr != nil {
		return nil, nil, leftErr
	}
	if rightErr != nil {
		return nil, nil, rightErr
	}
	return left, right, nil
}
