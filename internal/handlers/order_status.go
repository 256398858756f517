package handlers

import (
	"fmt"
	"strings"

	"backend/internal/models"
)

// validOrderTransitions is the authoritative lifecycle definition.
// cancelled is only reachable before the kitchen starts cooking.
var validOrderTransitions = map[string][]string{
	models.OrderPending:   {models.OrderAccepted, models.OrderCancelled},
	models.OrderAccepted:  {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing: {models.OrderReady},
	models.OrderReady:     {models.OrderDelivered},
}

// canTransitionOrder reports whether an order may move between the two
// states, with a caller-facing error naming the legal next states.
func canTransitionOrder(from, to string) error {
	for _, next := range validOrderTransitions[from] {
		if next == to {
			return nil
		}
	}

	nexts := validOrderTransitions[from]
	if len(nexts) == 0 {
		return fmt.Errorf("order is %s, a terminal state", from)
	}
	return fmt.Errorf("cannot move order from %s to %s; valid next states: %s", from, to, strings.Join(nexts, ", "))
}

func isKnownOrderStatus(status string) bool {
	switch status {
	case models.OrderPending, models.OrderAccepted, models.OrderPreparing,
		models.OrderReady, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}
