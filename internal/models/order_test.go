package models

import "testing"

func TestOrderStatusTransitionTable(t *testing.T) {
	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusPending:    {OrderStatusWaiting: true, OrderStatusCancel: true},
		OrderStatusWaiting:    {OrderStatusDelivering: true, OrderStatusCancel: true},
		OrderStatusDelivering: {OrderStatusDone: true},
		OrderStatusDone:       {},
		OrderStatusCancel:     {},
	}

	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusWaiting,
		OrderStatusDelivering,
		OrderStatusDone,
		OrderStatusCancel,
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			want := allowed[from][to]
			if got != want {
				t.Fatalf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestOrderStatusNoBackEdges(t *testing.T) {
	// walking any permitted edge must never lead back to a state that can
	// reach the source again
	reach := func(from, to OrderStatus) bool {
		seen := map[OrderStatus]bool{}
		queue := []OrderStatus{from}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur == to {
				return true
			}
			if seen[cur] {
				continue
			}
			seen[cur] = true
			queue = append(queue, orderTransitions[cur]...)
		}
		return false
	}

	for from, targets := range orderTransitions {
		for _, to := range targets {
			if reach(to, from) {
				t.Fatalf("transition %s -> %s allows re-entry into %s", from, to, from)
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if !OrderStatusDone.Terminal() {
		t.Fatal("expected done to be terminal")
	}
	if !OrderStatusCancel.Terminal() {
		t.Fatal("expected cancel to be terminal")
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusWaiting, OrderStatusDelivering} {
		if s.Terminal() {
			t.Fatalf("expected %s not to be terminal", s)
		}
	}
	if OrderStatus("shipped").Terminal() {
		t.Fatal("unknown status must not be terminal")
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusWaiting, OrderStatusDelivering, OrderStatusDone, OrderStatusCancel} {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if OrderStatus("PENDING").Valid() {
		t.Fatal("status values are lowercase; PENDING must be invalid")
	}
}

func TestPaymentMethodValid(t *testing.T) {
	if !PaymentMethodCOD.Valid() || !PaymentMethodVNPay.Valid() {
		t.Fatal("expected cod and vnpay to be valid payment methods")
	}
	if PaymentMethod("momo").Valid() {
		t.Fatal("unexpected payment method accepted")
	}
}

func TestRolePredicates(t *testing.T) {
	if !RoleAdmin.IsAdmin() {
		t.Fatal("expected admin role to be privileged")
	}
	if RoleUser.IsAdmin() {
		t.Fatal("user role must not be privileged")
	}
	if Role("ADMIN").Valid() {
		t.Fatal("roles are lowercase; ADMIN must be invalid")
	}
}
