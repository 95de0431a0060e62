package board

import (
	"fmt"
	"time"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

// Card is the visual representation of a patient on the board.
type Card struct {
	ID               int64
	Name             string
	Phone            string
	Status           entity.Status
	AttendanceStatus entity.AttendanceStatus
	CreatedAt        time.Time
}

// Snapshot captures where a card sat before an optimistic move, precise
// enough to put it back verbatim: origin column plus the sibling that was
// directly after it (0 when the card was last).
type Snapshot struct {
	CardID    int64
	From      entity.Status
	NextID    int64
	wasLast   bool
}

// Board holds the ordered columns of the pipeline. It models what the staff
// user sees, so moves are applied synchronously and reverted on reconciliation
// failure. Owned by a single session; not safe for concurrent use.
type Board struct {
	registry *Registry
	columns  map[entity.Status][]*Card
}

func NewBoard(registry *Registry) *Board {
	b := &Board{
		registry: registry,
		columns:  make(map[entity.Status][]*Card),
	}
	// every recognized column exists even when empty
	for _, s := range registry.Statuses() {
		b.columns[s] = []*Card{}
	}
	return b
}

// Load replaces the board content from a bulk fetch.
func (b *Board) Load(cards []*Card) error {
	for _, s := range b.registry.Statuses() {
		b.columns[s] = b.columns[s][:0]
	}
	for _, c := range cards {
		if !b.registry.Known(c.Status) {
			return fmt.Errorf("card %d carries unknown status %q", c.ID, c.Status)
		}
		b.columns[c.Status] = append(b.columns[c.Status], c)
	}
	return nil
}

// Find returns the card and the column it currently lives in.
func (b *Board) Find(cardID int64) (*Card, entity.Status, bool) {
	for _, s := range b.registry.Statuses() {
		for _, c := range b.columns[s] {
			if c.ID == cardID {
				return c, s, true
			}
		}
	}
	return nil, "", false
}

// Column returns the cards of one column in display order.
func (b *Board) Column(s entity.Status) []*Card {
	out := make([]*Card, len(b.columns[s]))
	copy(out, b.columns[s])
	return out
}

// Counts recomputes per-column totals from actual membership. Counters are
// never incremented arithmetically, so overlapping in-flight moves cannot
// drift them.
func (b *Board) Counts() map[entity.Status]int {
	counts := make(map[entity.Status]int, len(b.columns))
	for _, s := range b.registry.Statuses() {
		counts[s] = len(b.columns[s])
	}
	return counts
}

// Move applies the optimistic mutation: the card leaves its origin column and
// is appended to the target, and a snapshot of the prior position is returned
// for a possible revert. The card is never present in two columns at once.
func (b *Board) Move(cardID int64, target entity.Status) (Snapshot, error) {
	if !b.registry.Known(target) {
		return Snapshot{}, fmt.Errorf("unknown pipeline status %q: %w", target, entity.ErrInvalidStatus)
	}
	card, from, ok := b.Find(cardID)
	if !ok {
		return Snapshot{}, fmt.Errorf("card %d is not on the board", cardID)
	}

	snap := Snapshot{CardID: cardID, From: from, wasLast: true}
	col := b.columns[from]
	for i, c := range col {
		if c.ID != cardID {
			continue
		}
		if i+1 < len(col) {
			snap.NextID = col[i+1].ID
			snap.wasLast = false
		}
		b.columns[from] = append(col[:i:i], col[i+1:]...)
		break
	}

	card.Status = target
	b.columns[target] = append(b.columns[target], card)
	return snap, nil
}

// Revert restores a card to its pre-move column, directly before the sibling
// it originally preceded, or appended when it was last (or the sibling is gone).
func (b *Board) Revert(snap Snapshot) error {
	card, cur, ok := b.Find(snap.CardID)
	if !ok {
		return fmt.Errorf("card %d is not on the board", snap.CardID)
	}

	col := b.columns[cur]
	for i, c := range col {
		if c.ID == snap.CardID {
			b.columns[cur] = append(col[:i:i], col[i+1:]...)
			break
		}
	}

	card.Status = snap.From
	dst := b.columns[snap.From]
	if !snap.wasLast {
		for i, c := range dst {
			if c.ID == snap.NextID {
				dst = append(dst[:i:i], append([]*Card{card}, dst[i:]...)...)
				b.columns[snap.From] = dst
				return nil
			}
		}
	}
	b.columns[snap.From] = append(dst, card)
	return nil
}
