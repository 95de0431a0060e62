package board

import (
	"fmt"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

// DecisionKind tells the controller what a proposed move needs.
type DecisionKind int

const (
	// DecisionNoOp: target equals current status. No network call, no visual change.
	DecisionNoOp DecisionKind = iota
	// DecisionProceed: move straight through, no extra data.
	DecisionProceed
	// DecisionNeedsOutcome: terminal move, an attendance outcome must be collected first.
	DecisionNeedsOutcome
)

type Decision struct {
	Kind DecisionKind
}

// Gate validates proposed transitions. Pure decision logic, no I/O.
type Gate struct {
	registry *Registry
}

func NewGate(registry *Registry) *Gate {
	return &Gate{registry: registry}
}

// Decide rejects unknown targets before any mutation happens.
func (g *Gate) Decide(current, target entity.Status) (Decision, error) {
	if !g.registry.Known(target) {
		return Decision{}, fmt.Errorf("unknown pipeline status %q: %w", target, entity.ErrInvalidStatus)
	}
	if target == current {
		return Decision{Kind: DecisionNoOp}, nil
	}
	if target.Terminal() {
		return Decision{Kind: DecisionNeedsOutcome}, nil
	}
	return Decision{Kind: DecisionProceed}, nil
}
