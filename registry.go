package steadycc

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/steadycc/steadycc/internal/protocol"
)

var (
	ErrNoName            = errors.New("steadycc: descriptor has no name")
	ErrNoFactory         = errors.New("steadycc: descriptor has no factory")
	ErrStateTooLarge     = errors.New("steadycc: strategy state exceeds the per-connection slot")
	ErrDuplicateStrategy = errors.New("steadycc: strategy already registered")
	ErrUnknownStrategy   = errors.New("steadycc: unknown strategy")
)

// Descriptor describes a strategy selectable by name. StateSize is the size
// of the strategy's per-connection state; registration rejects descriptors
// whose state does not fit the host's fixed private-storage slot. New builds
// one strategy instance per connection.
type Descriptor struct {
	Name      string
	StateSize uintptr
	New       func() Strategy
}

// Registry maps strategy names to descriptors. It is owned by the host and
// follows the host's load/unload lifecycle: strategies are registered once
// at startup and unregistered at teardown. Making sure no live connection
// still references a strategy being unregistered is the host's job, not the
// registry's.
type Registry struct {
	strategies map[string]Descriptor
	mu         sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Descriptor)}
}

// Register makes desc selectable by name. A failure registers nothing; a
// state-size failure is structural and means the strategy must not be used
// at all.
func (r *Registry) Register(desc Descriptor) error {
	if desc.Name == "" {
		return ErrNoName
	}

	if desc.New == nil {
		return fmt.Errorf("%w: %q", ErrNoFactory, desc.Name)
	}

	if desc.StateSize > protocol.StateSlotSize {
		return fmt.Errorf("%w: %q needs %d bytes, slot holds %d", ErrStateTooLarge, desc.Name, desc.StateSize, protocol.StateSlotSize)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[desc.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateStrategy, desc.Name)
	}
	r.strategies[desc.Name] = desc
	return nil
}

func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	delete(r.strategies, name)
	return nil
}

func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.strategies[name]
	return desc, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
