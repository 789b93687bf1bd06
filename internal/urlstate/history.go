package urlstate

import (
	"fmt"
	"net/url"
	"sync"
)

// History is an in-memory navigation stack of URLs. It behaves like a
// browser session history: Push adds an entry and drops any forward
// entries, Replace rewrites the current entry, and Back/Forward move the
// cursor. Every change notifies subscribers.
type History struct {
	mu      sync.Mutex
	entries []url.URL
	index   int
	subs    map[int]func()
	nextSub int
}

// NewHistory returns a History whose only entry is rawURL.
func NewHistory(rawURL string) (*History, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	return &History{
		entries: []url.URL{*u},
		subs:    make(map[int]func()),
	}, nil
}

// URL returns the current entry.
func (h *History) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	u := h.entries[h.index]
	return u.String()
}

// Query returns a copy of the current entry's query.
func (h *History) Query() url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index].Query()
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Replace rewrites the current entry's query.
func (h *History) Replace(query url.Values) {
	h.mu.Lock()
	h.entries[h.index].RawQuery = query.Encode()
	subs := h.subscribersLocked()
	h.mu.Unlock()
	notify(subs)
}

// Push adds an entry with the current path and the given query.
func (h *History) Push(query url.Values) {
	h.mu.Lock()
	next := h.entries[h.index]
	next.RawQuery = query.Encode()
	h.entries = append(h.entries[:h.index+1], next)
	h.index++
	subs := h.subscribersLocked()
	h.mu.Unlock()
	notify(subs)
}

// Back moves to the previous entry. It reports false at the first entry.
func (h *History) Back() bool {
	return h.move(-1)
}

// Forward moves to the next entry. It reports false at the last entry.
func (h *History) Forward() bool {
	return h.move(1)
}

func (h *History) move(delta int) bool {
	h.mu.Lock()
	i := h.index + delta
	if i < 0 || i >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = i
	subs := h.subscribersLocked()
	h.mu.Unlock()
	notify(subs)
	return true
}

// Subscribe registers fn to run after every change.
func (h *History) Subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *History) subscribersLocked() []func() {
	out := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		out = append(out, fn)
	}
	return out
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
