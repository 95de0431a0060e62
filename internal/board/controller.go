package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/xavierca1/clinica-crm/internal/entity"
)

// OutcomePrompt is the blocking selection modal presented before a terminal
// move. It resolves to the chosen outcome, or ok=false when the staff user
// dismissed the prompt without choosing.
type OutcomePrompt interface {
	Select(ctx context.Context, options []entity.AttendanceStatus) (outcome entity.AttendanceStatus, ok bool)
}

var ErrNoDrag = errors.New("no drag in progress")

// Controller runs the full transition lifecycle of one board session:
// gate -> prompt -> optimistic move -> reconcile -> notify (or revert).
type Controller struct {
	gate     *Gate
	board    *Board
	client   TransitionClient
	notifier Notifier
	prompt   OutcomePrompt

	// the currently dragged card; zero outside a gesture. Always cleared at
	// drag end, even when the drop is rejected.
	dragging int64
}

func NewController(board *Board, client TransitionClient, notifier Notifier, prompt OutcomePrompt) *Controller {
	return &Controller{
		gate:     NewGate(board.registry),
		board:    board,
		client:   client,
		notifier: notifier,
		prompt:   prompt,
	}
}

// BeginDrag records the card the current gesture is carrying.
func (c *Controller) BeginDrag(cardID int64) error {
	if _, _, ok := c.board.Find(cardID); !ok {
		return fmt.Errorf("card %d is not on the board", cardID)
	}
	c.dragging = cardID
	return nil
}

// Dragging exposes the gesture slot for view bindings.
func (c *Controller) Dragging() int64 {
	return c.dragging
}

// CancelDrag clears the gesture without a drop.
func (c *Controller) CancelDrag() {
	c.dragging = 0
}

// Drop completes the gesture onto a target column. The drag slot is released
// regardless of how the move turns out, so a stale reference can never leak
// into the next gesture.
func (c *Controller) Drop(ctx context.Context, target entity.Status) error {
	cardID := c.dragging
	defer func() { c.dragging = 0 }()

	if cardID == 0 {
		return ErrNoDrag
	}
	return c.Move(ctx, cardID, target)
}

// Move runs one transition attempt for a card, from validation through
// reconciliation. Failures are surfaced through the notifier and the board is
// left exactly as the server last confirmed it.
func (c *Controller) Move(ctx context.Context, cardID int64, target entity.Status) error {
	card, current, ok := c.board.Find(cardID)
	if !ok {
		return fmt.Errorf("card %d is not on the board", cardID)
	}

	decision, err := c.gate.Decide(current, target)
	if err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	switch decision.Kind {
	case DecisionNoOp:
		return nil
	case DecisionNeedsOutcome:
		outcome := entity.DefaultAttendance
		if c.prompt != nil {
			if chosen, picked := c.prompt.Select(ctx, entity.AttendanceStatuses()); picked {
				outcome = chosen
			}
		}
		return c.reconcile(ctx, card, target, outcome)
	default:
		return c.reconcile(ctx, card, target, "")
	}
}

func (c *Controller) reconcile(ctx context.Context, card *Card, target entity.Status, outcome entity.AttendanceStatus) error {
	// optimistic: the card moves before the server answers
	snap, err := c.board.Move(card.ID, target)
	if err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	if err := c.client.SubmitTransition(ctx, card.ID, target, outcome); err != nil {
		if revertErr := c.board.Revert(snap); revertErr != nil {
			err = fmt.Errorf("%w (revert: %v)", err, revertErr)
		}
		c.notifier.Error(err.Error())
		return err
	}

	if outcome != "" {
		card.AttendanceStatus = outcome
	}
	c.notifier.Success(fmt.Sprintf("%s movido para %s", card.Name, target))
	return nil
}

// Counts recomputes the column counters from actual membership.
func (c *Controller) Counts() map[entity.Status]int {
	return c.board.Counts()
}
