package model

import "strings"

// OrderStatus is the closed order lifecycle vocabulary. The legacy system
// accepted arbitrary strings and drifted into three parallel vocabularies;
// here every module shares this one tagged type.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCanceled  OrderStatus = "canceled"
)

// ParseOrderStatus validates a status string against the enum.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCanceled:
		return OrderStatus(s), true
	}
	return "", false
}

// transitions maps each legal (from → to) edge to the roles allowed to take it.
// Admin and supervisor can take every edge; panel roles only their own step.
var transitions = map[OrderStatus]map[OrderStatus][]Role{
	StatusPending: {
		StatusPreparing: {RoleAdmin, RoleSupervisor, RoleSeller, RoleKitchen},
		StatusCanceled:  {RoleAdmin, RoleSupervisor},
	},
	StatusPreparing: {
		StatusReady:    {RoleAdmin, RoleSupervisor, RoleSeller, RoleKitchen},
		StatusCanceled: {RoleAdmin, RoleSupervisor},
	},
	StatusReady: {
		StatusDelivered: {RoleAdmin, RoleSupervisor, RoleSeller, RoleDelivery},
		StatusCanceled:  {RoleAdmin, RoleSupervisor},
	},
}

// CanTransition reports whether the edge exists and, if so, whether the role
// may take it.
func CanTransition(from, to OrderStatus, role Role) (edgeExists, roleAllowed bool) {
	roles, ok := transitions[from][to]
	if !ok {
		return false, false
	}
	for _, r := range roles {
		if r == role {
			return true, true
		}
	}
	return true, false
}

// finalLabels are the status values (case-insensitive) that fire the
// purchase-conversion event. Legacy labels are kept so historical rows and
// external callers keep matching.
var finalLabels = map[string]struct{}{
	"completed": {}, "concluded": {}, "delivered": {},
	"finalizado": {}, "concluido": {}, "entregue": {},
}

// IsFinalStatus reports whether a status label counts as a completed purchase.
func IsFinalStatus(s string) bool {
	_, ok := finalLabels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
