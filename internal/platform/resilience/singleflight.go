package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key. The sync
// pipeline uses it both to share in-flight upstream requests and to
// serialize full sync-and-snapshot cycles behind one key. The zero
// value is ready to use.
type SingleFlight struct {
	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key; callers arriving while a call for the same key
// is in flight wait for it and receive its result. The third return value
// reports whether the result was shared.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}

	f := &flight{done: make(chan struct{})}
	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}
	g.flights[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	close(f.done)

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()

	return f.val, f.err, false
}
