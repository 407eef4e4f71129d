package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// State is a renderable snapshot of a widget instance
type State struct {
	// Results is the full (search mode) or filtered (list mode) result set.
	Results []Item
	// PageItems is the slice of Results for the current page.
	PageItems []Item
	Pagination PaginationState
	Loading    bool
	Err        bool
}

// Engine owns the query state of one widget instance: the current term, the
// taxonomy filter, the result set and the derived pagination. The sourcing
// strategy decides whether a term hits the server (search mode) or filters a
// locally held set (list mode).
//
// State is guarded by a mutex because debounce timers and query completions
// arrive on their own goroutines; the last-writer-wins rule for overlapping
// queries is enforced by cancellation plus a generation counter.
type Engine struct {
	cfg    Config
	client QueryClient
	strat  sourcingStrategy
	pager  *Pager

	mu        sync.Mutex
	allItems  []Item // list mode: the full loaded set
	results   []Item
	pageItems []Item
	loading   bool
	err       bool

	debounce   *time.Timer
	generation uint64
	cancel     context.CancelFunc

	subs []func(PaginationState)
}

// NewEngine creates a widget engine. One engine per widget instance; nothing
// is shared between instances.
func NewEngine(cfg Config, client QueryClient) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:    cfg,
		client: client,
		pager:  NewPager(cfg.Pagination),
	}
	if cfg.Mode == ModeList {
		e.strat = &listStrategy{}
	} else {
		e.strat = &searchStrategy{}
	}
	return e
}

// Load performs the strategy's one-time mount work. List mode fetches the
// full document set; search mode starts empty.
func (e *Engine) Load(ctx context.Context) {
	e.strat.load(ctx, e)
}

// SetQuery feeds a user input event into the engine. Events within the
// debounce window collapse; only the last term survives to execute.
func (e *Engine) SetQuery(term string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.strat.debounce(e.cfg), func() {
		e.strat.apply(e, term)
	})
}

// GoToPage moves to a 0-indexed page; out-of-range requests are ignored
func (e *Engine) GoToPage(n int) {
	e.mu.Lock()
	state := e.pager.GoToPage(n)
	start, end := state.Bounds()
	e.pageItems = e.results[start:end]
	subs := e.subscribers()
	e.mu.Unlock()

	publish(subs, state)
}

// Subscribe registers a callback for pagination changes. External pagination
// controls subscribe here and call GoToPage directly.
func (e *Engine) Subscribe(fn func(PaginationState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// State returns a snapshot of the current widget state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Results:    e.results,
		PageItems:  e.pageItems,
		Pagination: e.pager.Recompute(len(e.results)),
		Loading:    e.loading,
		Err:        e.err,
	}
}

// Close cancels any pending debounce and in-flight query
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.cancelInFlightLocked()
	e.generation++
}

func (e *Engine) cancelInFlightLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// setResultsLocked replaces the result set, resets to the first page and
// recomputes. Returns the state to publish after the lock is released.
func (e *Engine) setResultsLocked(items []Item, errState bool) PaginationState {
	e.results = items
	e.err = errState
	e.pager.Reset()
	state := e.pager.Recompute(len(items))
	start, end := state.Bounds()
	e.pageItems = e.results[start:end]
	return state
}

func (e *Engine) subscribers() []func(PaginationState) {
	subs := make([]func(PaginationState), len(e.subs))
	copy(subs, e.subs)
	return subs
}

func publish(subs []func(PaginationState), state PaginationState) {
	for _, fn := range subs {
		fn(state)
	}
}

// sourcingStrategy is how an engine turns input events into a result set
type sourcingStrategy interface {
	debounce(cfg Config) time.Duration
	load(ctx context.Context, e *Engine)
	apply(e *Engine, term string)
}

// searchStrategy queries the server per debounced term
type searchStrategy struct{}

func (searchStrategy) debounce(cfg Config) time.Duration { return cfg.SearchDebounce }

func (searchStrategy) load(ctx context.Context, e *Engine) {}

func (searchStrategy) apply(e *Engine, term string) {
	term = strings.TrimSpace(term)

	e.mu.Lock()
	e.cancelInFlightLocked()

	// Below the minimum the engine goes quiet: no network, no error, no
	// results.
	if utf8.RuneCountInString(term) < e.cfg.MinSearchChars {
		e.loading = false
		state := e.setResultsLocked([]Item{}, false)
		subs := e.subscribers()
		e.mu.Unlock()
		publish(subs, state)
		return
	}

	e.generation++
	gen := e.generation
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.loading = true
	taxonomy := e.cfg.TaxonomySlugs
	e.mu.Unlock()

	go func() {
		items, err := e.client.Query(ctx, term, taxonomy)

		e.mu.Lock()
		if gen != e.generation {
			// Superseded by a newer query; drop the outcome entirely.
			e.mu.Unlock()
			return
		}
		e.cancel = nil
		e.loading = false

		if err != nil {
			if errors.Is(err, context.Canceled) {
				e.mu.Unlock()
				return
			}
			state := e.setResultsLocked([]Item{}, true)
			subs := e.subscribers()
			e.mu.Unlock()
			publish(subs, state)
			return
		}

		state := e.setResultsLocked(items, false)
		subs := e.subscribers()
		e.mu.Unlock()
		publish(subs, state)
	}()
}

// listStrategy loads the full set once and filters locally
type listStrategy struct{}

func (listStrategy) debounce(cfg Config) time.Duration { return cfg.FilterDebounce }

func (listStrategy) load(ctx context.Context, e *Engine) {
	e.mu.Lock()
	e.loading = true
	taxonomy := e.cfg.TaxonomySlugs
	e.mu.Unlock()

	items, err := e.client.Query(ctx, "", taxonomy)

	e.mu.Lock()
	e.loading = false
	if err != nil {
		e.allItems = nil
		state := e.setResultsLocked([]Item{}, true)
		subs := e.subscribers()
		e.mu.Unlock()
		publish(subs, state)
		return
	}
	e.allItems = items
	state := e.setResultsLocked(items, false)
	subs := e.subscribers()
	e.mu.Unlock()
	publish(subs, state)
}

func (listStrategy) apply(e *Engine, term string) {
	filter := strings.ToLower(strings.TrimSpace(term))

	e.mu.Lock()
	filtered := e.allItems
	if filter != "" {
		filtered = make([]Item, 0, len(e.allItems))
		for _, item := range e.allItems {
			if strings.Contains(strings.ToLower(item.Title), filter) {
				filtered = append(filtered, item)
			}
		}
	}
	state := e.setResultsLocked(filtered, e.err)
	subs := e.subscribers()
	e.mu.Unlock()
	publish(subs, state)
}
