package consent

import "sync"

// Registry keeps one Gate per operator. An allowed phase belongs to the
// operator who reached it; another operator on the same console starts
// from loading.
type Registry struct {
	svc  Service
	opts Options

	mu    sync.Mutex
	gates map[string]*Gate
}

// NewRegistry creates an empty registry whose gates share svc and opts.
func NewRegistry(svc Service, opts Options) *Registry {
	return &Registry{svc: svc, opts: opts, gates: make(map[string]*Gate)}
}

// For returns the gate of operator, creating it on first use.
func (r *Registry) For(operator string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gates[operator]
	if !ok {
		g = NewGate(r.svc, r.opts)
		r.gates[operator] = g
	}
	return g
}

// Reset forgets every gate. It runs when the stored credential is cleared,
// so the next operator is checked from scratch.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.gates)
}
