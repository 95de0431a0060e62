// Package board implements the staff-facing lead pipeline: an in-memory
// Kanban board with optimistic moves reconciled against the CRM API.
package board

import "github.com/xavierca1/clinica-crm/internal/entity"

// Registry is the fixed, ordered set of pipeline columns.
// Read-only after construction.
type Registry struct {
	order []entity.Status
	known map[entity.Status]bool
}

func NewRegistry() *Registry {
	order := entity.PipelineStatuses()
	known := make(map[entity.Status]bool, len(order))
	for _, s := range order {
		known[s] = true
	}
	return &Registry{order: order, known: known}
}

// Statuses returns the canonical column order.
func (r *Registry) Statuses() []entity.Status {
	out := make([]entity.Status, len(r.order))
	copy(out, r.order)
	return out
}

// Known reports whether a candidate column identifier is a recognized status.
func (r *Registry) Known(s entity.Status) bool {
	return r.known[s]
}
