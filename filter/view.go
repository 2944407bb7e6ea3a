package filter

import (
	"context"
	"sync"

	"github.com/hugr-lab/rowfilter/table"
)

// View pairs a source table with the currently applied filter.
//
// SetFilter only replaces the visible result when the new filter succeeds, so a
// bad filter never disturbs what the caller is showing.
type View struct {
	mu     sync.RWMutex
	engine *Engine
	source *table.Table
	text   string
	result *table.Table
}

// NewView creates a view over source with no filter applied.
// The view retains source; release it with Close.
func NewView(engine *Engine, source *table.Table) *View {
	if engine == nil {
		engine = defaultEngine
	}
	source.Retain()
	source.Retain()
	return &View{
		engine: engine,
		source: source,
		result: source,
	}
}

// SetFilter applies text to the source table. On error the previous filter and
// result stay in effect and the error is returned. A closed view returns
// ErrViewClosed.
func (v *View) SetFilter(ctx context.Context, text string) error {
	src, err := v.acquireSource()
	if err != nil {
		return err
	}
	out, err := v.engine.Apply(ctx, text, src)
	src.Release()
	if err != nil {
		return err
	}

	v.mu.Lock()
	if v.result == nil {
		v.mu.Unlock()
		out.Release()
		return ErrViewClosed
	}
	prev := v.result
	v.result = out
	v.text = text
	v.mu.Unlock()

	prev.Release()
	return nil
}

// ClearFilter restores the unfiltered source table.
func (v *View) ClearFilter() {
	v.mu.Lock()
	if v.source == nil {
		v.mu.Unlock()
		return
	}
	v.source.Retain()
	prev := v.result
	v.result = v.source
	v.text = ""
	v.mu.Unlock()

	prev.Release()
}

// Filter returns the text of the active filter.
func (v *View) Filter() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.text
}

// Table returns the filtered table, retained. The caller must release it.
// A closed view returns nil.
func (v *View) Table() *table.Table {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.result == nil {
		return nil
	}
	v.result.Retain()
	return v.result
}

// Matches evaluates text against the source table without changing the view,
// e.g. to highlight matching rows in place.
func (v *View) Matches(text string) (Mask, error) {
	src, err := v.acquireSource()
	if err != nil {
		return nil, err
	}
	defer src.Release()
	return v.engine.Evaluate(text, src)
}

// acquireSource returns the source table retained, so evaluation can run
// outside the lock while Close proceeds.
func (v *View) acquireSource() (*table.Table, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.source == nil {
		return nil, ErrViewClosed
	}
	v.source.Retain()
	return v.source, nil
}

// Close releases the tables held by the view.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.result != nil {
		v.result.Release()
		v.result = nil
	}
	if v.source != nil {
		v.source.Release()
		v.source = nil
	}
}
