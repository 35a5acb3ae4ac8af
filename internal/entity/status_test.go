package domain

import "testing"

func TestCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:        {StatusWaitingPayment, StatusCanceled},
		StatusWaitingPayment: {StatusPaid, StatusCanceled},
		StatusPaid:           {StatusProcessing, StatusCanceled},
		StatusProcessing:     {StatusShipped, StatusCanceled},
		StatusShipped:        {StatusDelivered, StatusCanceled},
		StatusDelivered:      {},
		StatusCanceled:       {},
	}
	all := []Status{
		StatusPending, StatusWaitingPayment, StatusPaid,
		StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled,
	}

	for from, nexts := range allowed {
		ok := map[Status]bool{}
		for _, n := range nexts {
			ok[n] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			if got != ok[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestStatusNeverTransitionsToItself(t *testing.T) {
	for _, s := range []Status{
		StatusPending, StatusWaitingPayment, StatusPaid,
		StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled,
	} {
		if s.CanTransitionTo(s) {
			t.Errorf("%s must not transition to itself", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		s    Status
		want bool
	}{
		{StatusPending, false},
		{StatusWaitingPayment, false},
		{StatusPaid, false},
		{StatusProcessing, false},
		{StatusShipped, false},
		{StatusDelivered, true},
		{StatusCanceled, true},
		{Status("GARBAGE"), false},
	}
	for _, c := range cases {
		if got := c.s.IsTerminal(); got != c.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("  shipped ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusShipped {
		t.Errorf("got %s, want %s", got, StatusShipped)
	}

	if _, err := ParseStatus("TELEPORTED"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Error("expected error for empty status")
	}
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{ProductName: "Widget", Quantity: 2, UnitValue: 10},
		{ProductName: "Gadget", Quantity: 1, UnitValue: 5.5},
	}
	if got := OrderTotal(items); got != 25.5 {
		t.Errorf("got %v, want 25.5", got)
	}
}

func TestValidateItems(t *testing.T) {
	if err := ValidateItems(nil); err != ErrNoItems {
		t.Errorf("got %v, want ErrNoItems", err)
	}
	if err := ValidateItems([]OrderItem{{Quantity: 0, UnitValue: 1}}); err != ErrInvalidQuantity {
		t.Errorf("got %v, want ErrInvalidQuantity", err)
	}
	if err := ValidateItems([]OrderItem{{Quantity: 1, UnitValue: -1}}); err != ErrInvalidValue {
		t.Errorf("got %v, want ErrInvalidValue", err)
	}
	if err := ValidateItems([]OrderItem{{Quantity: 1, UnitValue: 0}}); err != nil {
		t.Errorf("zero unit value must be allowed, got %v", err)
	}
}
