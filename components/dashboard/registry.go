package dashboard

import (
	"fmt"
	"slices"
	"sync"
)

// ProviderHook lets packages register view providers during init().
type ProviderHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ProviderHook
)

// RegisterProviderHook registers a hook executed against new registries.
func RegisterProviderHook(h ProviderHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry maps view ids to the providers that serve them.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	fallback  Provider
}

// NewRegistry builds an empty registry and applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{providers: map[string]Provider{}}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered provider hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterProvider associates a provider with a view id.
func (r *Registry) RegisterProvider(viewID string, provider Provider) error {
	if viewID == "" {
		return fmt.Errorf("dashboard: view id is required to register provider")
	}
	if provider == nil {
		return fmt.Errorf("dashboard: provider for view %s cannot be nil", viewID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[viewID] = provider
	return nil
}

// SetFallback serves views without a dedicated provider, e.g. a SQL provider
// that knows every view of a manifest.
func (r *Registry) SetFallback(provider Provider) {
	r.mu.Lock()
	r.fallback = provider
	r.mu.Unlock()
}

// Provider fetches the provider for viewID.
func (r *Registry) Provider(viewID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if provider, ok := r.providers[viewID]; ok {
		return provider, true
	}
	if r.fallback != nil && viewID != "" {
		return r.fallback, true
	}
	return nil, false
}

// Views returns the registered view ids in sorted order.
func (r *Registry) Views() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]string, 0, len(r.providers))
	for id := range r.providers {
		views = append(views, id)
	}
	slices.Sort(views)
	return views
}
