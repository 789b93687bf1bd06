package urlstate

import (
	"net/http"
	"net/url"
	"sync"
)

// Location is the current URL as seen by a Store.
//
// Replace must swap the query in place without adding a history entry and
// must notify subscribers before it returns. Subscribers are also notified
// when the location changes for any other reason, such as back/forward
// navigation.
type Location interface {
	Query() url.Values
	Replace(query url.Values)
	Subscribe(fn func()) (unsubscribe func())
}

// StaticLocation is a Location over a fixed set of values. It never
// notifies and suits one-shot derivations such as request handling.
type StaticLocation struct {
	mu     sync.Mutex
	values url.Values
}

// NewStaticLocation returns a StaticLocation holding a copy of values.
func NewStaticLocation(values url.Values) *StaticLocation {
	return &StaticLocation{values: cloneValues(values)}
}

// FromRequest returns a StaticLocation over the query of r.
func FromRequest(r *http.Request) *StaticLocation {
	return &StaticLocation{values: r.URL.Query()}
}

// Query returns a copy of the current values.
func (l *StaticLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.values)
}

// Replace swaps the current values.
func (l *StaticLocation) Replace(query url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = cloneValues(query)
}

// Subscribe is a no-op; a StaticLocation only changes through Replace.
func (l *StaticLocation) Subscribe(func()) func() {
	return func() {}
}

// Encode returns the current query in canonical encoded form.
func (l *StaticLocation) Encode() string {
	return l.Query().Encode()
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
