package domain

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusWaitingPayment Status = "WAITING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusProcessing     Status = "PROCESSING"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCanceled       Status = "CANCELED"
)

// validTransitions is the full lifecycle graph. DELIVERED and CANCELED are
// terminal: no outbound edges, ever.
var validTransitions = map[Status][]Status{
	StatusPending:        {StatusWaitingPayment, StatusCanceled},
	StatusWaitingPayment: {StatusPaid, StatusCanceled},
	StatusPaid:           {StatusProcessing, StatusCanceled},
	StatusProcessing:     {StatusShipped, StatusCanceled},
	StatusShipped:        {StatusDelivered, StatusCanceled},
	StatusDelivered:      {},
	StatusCanceled:       {},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0 && s.IsValid()
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) String() string { return string(s) }

// ParseStatus normalizes and validates a client-supplied status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}
