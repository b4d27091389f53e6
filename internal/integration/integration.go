// Package integration defines the uniform capability set every data-source
// adapter implements, a registry to look adapters up by name, and the
// concrete Facebook adapter.
package integration

import (
	"context"
	"errors"

	"crm-dashboard-service/internal/model"
)

// ErrNotImplemented is returned by declared-but-unbuilt adapters.
var ErrNotImplemented = errors.New("integration not implemented")

// Integration is the capability set shared by all data sources, so the
// rest of the system can treat them interchangeably.
type Integration interface {
	Name() string
	DisplayName() string
	Description() string

	// Connect builds the provider's OAuth authorization URL with the
	// user's external uid as the state correlator. No side effects.
	Connect(ctx context.Context, userID string) (string, error)

	// Disconnect marks the stored connection inactive.
	Disconnect(ctx context.Context, integrationID string) error

	// GetMetrics reads and reshapes persisted insight rows; it does not
	// call the upstream API.
	GetMetrics(ctx context.Context, integrationID string) ([]model.Metric, error)

	// GetLeads reads and reshapes persisted lead rows.
	GetLeads(ctx context.Context, integrationID string) ([]model.Lead, error)

	// IsConnected reports whether an active connection exists for the user.
	IsConnected(ctx context.Context, userID string) (bool, error)

	// GetConnectionStatus is the richer form of IsConnected.
	GetConnectionStatus(ctx context.Context, userID string) (model.ConnectionStatus, error)
}

// Registry maps adapter name to adapter instance. It is constructed once
// at startup and passed to whoever needs lookup; the set of adapters is
// fixed at build time.
type Registry struct {
	byName map[string]Integration
	order  []string
}

// NewRegistry builds a registry holding the given adapters.
func NewRegistry(integrations ...Integration) *Registry {
	r := &Registry{byName: make(map[string]Integration, len(integrations))}
	for _, in := range integrations {
		if _, dup := r.byName[in.Name()]; !dup {
			r.order = append(r.order, in.Name())
		}
		r.byName[in.Name()] = in
	}
	return r
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Integration, bool) {
	in, ok := r.byName[name]
	return in, ok
}

// Available lists registered adapters in registration order, excluding
// any placeholder base entry.
func (r *Registry) Available() []Integration {
	out := make([]Integration, 0, len(r.order))
	for _, name := range r.order {
		if name == "base" {
			continue
		}
		out = append(out, r.byName[name])
	}
	return out
}
