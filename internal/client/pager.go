package client

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	// ErrFetchInFlight is returned when a page is requested while the previous one is still loading.
	ErrFetchInFlight = errors.New("a page is already loading")
	// ErrStale is returned for a page whose response arrived after the pager was reset.
	ErrStale = errors.New("page arrived after reset and was discarded")
)

// FetchFunc loads limit items starting at offset.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Pager loads a list page by page, strictly in offset order and one page at a time.
// A failed load keeps everything loaded so far.
type Pager[T any] struct {
	fetch FetchFunc[T]
	limit int

	mu         sync.Mutex
	items      []T
	offset     int
	done       bool
	loading    bool
	generation int
}

func NewPager[T any](limit int, fetch FetchFunc[T]) *Pager[T] {
	return &Pager[T]{fetch: fetch, limit: limit}
}

// LoadMore fetches the next page and appends it. It returns the new items, or nil once
// the list is exhausted.
func (p *Pager[T]) LoadMore(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrFetchInFlight
	}
	if p.done {
		p.mu.Unlock()
		return nil, nil
	}
	p.loading = true
	offset, gen := p.offset, p.generation
	p.mu.Unlock()

	page, err := p.fetch(ctx, offset, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return nil, ErrStale
	}
	p.loading = false
	if err != nil {
		return nil, err
	}
	p.items = append(p.items, page...)
	p.offset += len(page)
	p.done = len(page) < p.limit
	return page, nil
}

// Items returns a copy of everything loaded so far.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

// Done reports whether the last page has been loaded.
func (p *Pager[T]) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Loading reports whether a page is being fetched.
func (p *Pager[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Reset forgets all pages. A fetch still in flight is discarded when it completes.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items, p.offset, p.done, p.loading = nil, 0, false, false
	p.generation++
}
