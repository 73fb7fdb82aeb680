package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"pending", "preparing", "ready", "delivered", "canceled"} {
		s, ok := ParseOrderStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, OrderStatus(valid), s)
	}
	for _, invalid := range []string{"", "Pending", "done", "cancelled", "em preparo"} {
		_, ok := ParseOrderStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestTransitionTable(t *testing.T) {
	// Happy path follows the kanban order
	cases := []struct {
		from, to OrderStatus
		role     Role
		edge     bool
		allowed  bool
	}{
		{StatusPending, StatusPreparing, RoleKitchen, true, true},
		{StatusPreparing, StatusReady, RoleKitchen, true, true},
		{StatusReady, StatusDelivered, RoleDelivery, true, true},
		{StatusReady, StatusDelivered, RoleSeller, true, true},

		// Cancel is manager-only from every live status
		{StatusPending, StatusCanceled, RoleSupervisor, true, true},
		{StatusPreparing, StatusCanceled, RoleAdmin, true, true},
		{StatusReady, StatusCanceled, RoleSeller, true, false},
		{StatusPending, StatusCanceled, RoleKitchen, true, false},

		// Edges that do not exist, regardless of role
		{StatusPending, StatusReady, RoleAdmin, false, false},
		{StatusPending, StatusDelivered, RoleAdmin, false, false},
		{StatusDelivered, StatusPending, RoleAdmin, false, false},
		{StatusCanceled, StatusPreparing, RoleAdmin, false, false},
		{StatusDelivered, StatusCanceled, RoleAdmin, false, false},

		// Role gating on existing edges
		{StatusReady, StatusDelivered, RoleKitchen, true, false},
		{StatusPending, StatusPreparing, RoleDelivery, true, false},
		{StatusPending, StatusPreparing, RoleClient, true, false},
	}

	for _, tc := range cases {
		edge, allowed := CanTransition(tc.from, tc.to, tc.role)
		assert.Equal(t, tc.edge, edge, "%s→%s edge", tc.from, tc.to)
		assert.Equal(t, tc.allowed, allowed, "%s→%s by %s", tc.from, tc.to, tc.role)
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusDelivered, StatusCanceled} {
		for _, to := range []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCanceled} {
			edge, _ := CanTransition(terminal, to, RoleAdmin)
			assert.False(t, edge, "%s→%s must not exist", terminal, to)
		}
	}
}

func TestIsFinalStatus(t *testing.T) {
	assert.True(t, IsFinalStatus("delivered"))
	assert.True(t, IsFinalStatus("DELIVERED"))
	assert.True(t, IsFinalStatus(" Entregue "))
	assert.True(t, IsFinalStatus("Concluido"))
	assert.True(t, IsFinalStatus("finalizado"))
	assert.True(t, IsFinalStatus("completed"))

	assert.False(t, IsFinalStatus("pending"))
	assert.False(t, IsFinalStatus("canceled"))
	assert.False(t, IsFinalStatus(""))
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "supervisor", "seller", "client", "kitchen", "delivery"} {
		r, ok := ParseRole(valid)
		assert.True(t, ok)
		assert.Equal(t, Role(valid), r)
	}
	_, ok := ParseRole("root")
	assert.False(t, ok)
	_, ok = ParseRole("Admin")
	assert.False(t, ok)
}
