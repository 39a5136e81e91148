package route

import (
	"fmt"
	"sort"
	"sync"

	"github.com/satyamsundaram01/moe-support-assist/core"
)

// Registry holds the addressable agent names of a deployment. The runner
// validates every emitted transfer target against it before handing control
// over; a miss is fatal to the turn and the conversation stays with the prior
// agent.
type Registry struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewRegistry builds a registry over the given names.
func NewRegistry(names ...string) *Registry {
	r := &Registry{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		r.names[n] = struct{}{}
	}
	return r
}

// DefaultRegistry returns a registry over the seven conversational agents.
func DefaultRegistry() *Registry {
	return NewRegistry(
		SupportChatManager,
		TechnicalTroubleshootAgent,
		PushTroubleshootAgent,
		WhatsAppTroubleshootAgent,
		KnowledgeSpecialist,
		TicketSpecialist,
		FollowUpSpecialist,
	)
}

// Register adds a name to the addressable set.
func (r *Registry) Register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = struct{}{}
}

// Known reports whether the name is addressable.
func (r *Registry) Known(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[name]
	return ok
}

// Resolve validates a transfer target, returning ErrUnknownTransferTarget
// (wrapped with the offending name) when it is not addressable.
func (r *Registry) Resolve(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty target", core.ErrUnknownTransferTarget)
	}
	if !r.Known(name) {
		return fmt.Errorf("%w: %q", core.ErrUnknownTransferTarget, name)
	}
	return nil
}

// Names returns the sorted addressable set, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
