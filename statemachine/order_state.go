package statemachine

import (
	"fmt"

	"food-ordering-api/models"
)

// Actor is the user requesting a transition, as stored in the user directory
type Actor struct {
	UserID uint
	Role   models.UserRole
}

// OrderFacts is the part of an order the rules look at
type OrderFacts struct {
	Status            models.OrderStatus
	CustomerID        uint
	RestaurantOwnerID uint
}

// Decision is the outcome of a rule evaluation. Reason is set on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(format string, args ...any) Decision {
	return Decision{Reason: fmt.Sprintf(format, args...)}
}

// Decide evaluates whether actor may move the order to the requested status.
// Restaurant owners drive preparation and dispatch, the placing customer
// confirms receipt, and either may cancel (the customer only while PLACED).
// Nothing leaves a terminal status. Actors unrelated to the order are turned
// away before anything about the order's state is revealed.
func Decide(order OrderFacts, to models.OrderStatus, actor Actor) Decision {
	if !to.Valid() {
		return deny("unknown target status %q", to)
	}

	isCustomer := actor.Role == models.RoleCustomer && actor.UserID == order.CustomerID
	isOwner := actor.Role == models.RoleRestaurantOwner && actor.UserID == order.RestaurantOwnerID
	if !isCustomer && !isOwner {
		return deny("user %d is neither the order's customer nor its restaurant owner", actor.UserID)
	}

	if order.Status.IsTerminal() {
		return deny("order is %s, which is terminal", order.Status)
	}

	switch to {
	case models.StatusPreparing, models.StatusOutForDelivery:
		if !isOwner {
			return deny("only the owner of the order's restaurant can set %s", to)
		}
		return allow()

	case models.StatusDelivered:
		if !isCustomer {
			return deny("only the customer who placed the order can mark it delivered")
		}
		if order.Status != models.StatusOutForDelivery {
			return deny("order can only be marked delivered when it is %s, current status is %s",
				models.StatusOutForDelivery, order.Status)
		}
		return allow()

	case models.StatusCancelled:
		if isCustomer && order.Status != models.StatusPlaced {
			return deny("customer can only cancel while the order is %s, current status is %s",
				models.StatusPlaced, order.Status)
		}
		return allow()

	default:
		return deny("%s cannot be requested, orders enter it only at placement", to)
	}
}

// NextStatuses returns what this actor may request for this order right now
func NextStatuses(order OrderFacts, actor Actor) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, to := range models.AllStatuses {
		if Decide(order, to, actor).Allowed {
			nexts = append(nexts, to)
		}
	}
	return nexts
}

// Transition describes one allowed (from, to, role) move
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

var roles = []models.UserRole{models.RoleCustomer, models.RoleRestaurantOwner}

// allowedFor evaluates Decide with an actor that matches the order's customer
// or owner, which is the only way a role can be granted anything
func allowedFor(from, to models.OrderStatus, role models.UserRole) bool {
	const customerID, ownerID = 1, 2
	actor := Actor{UserID: customerID, Role: role}
	if role == models.RoleRestaurantOwner {
		actor.UserID = ownerID
	}
	facts := OrderFacts{Status: from, CustomerID: customerID, RestaurantOwnerID: ownerID}
	return Decide(facts, to, actor).Allowed
}

// Transitions enumerates the state machine, derived from Decide
func Transitions() []Transition {
	var out []Transition
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			for _, role := range roles {
				if allowedFor(from, to, role) {
					out = append(out, Transition{From: from, To: to, Actor: role})
				}
			}
		}
	}
	return out
}

// ValidTransitionsFrom returns the statuses role may request from status
func ValidTransitionsFrom(status models.OrderStatus, role models.UserRole) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, to := range models.AllStatuses {
		if allowedFor(status, to, role) {
			nexts = append(nexts, to)
		}
	}
	return nexts
}

// TerminalStatuses lists the statuses nothing can leave
func TerminalStatuses() []models.OrderStatus {
	var out []models.OrderStatus
	for _, s := range models.AllStatuses {
		if s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out
}
