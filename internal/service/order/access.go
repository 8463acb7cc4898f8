package order

import (
	"github.com/cartorio-digital/siged/internal/domain"
)

// CanAccessOrder is the single access gate applied before any read or
// mutation of an order: admins see everything, clients see their own orders,
// analysts see the orders assigned to them.
func CanAccessOrder(user *domain.User, o *domain.Order) bool {
	if user == nil || o == nil {
		return false
	}
	if user.Role == domain.UserRoleAdmin {
		return true
	}
	if user.ID == o.ClientID {
		return true
	}
	if o.AnalystID != nil && user.ID == *o.AnalystID {
		return true
	}
	return false
}

// canFulfill reports whether the user may work the order forward (quote,
// complete): any admin, or the assigned analyst.
func canFulfill(user *domain.User, o *domain.Order) bool {
	if user == nil || o == nil {
		return false
	}
	if user.Role == domain.UserRoleAdmin {
		return true
	}
	return user.Role == domain.UserRoleAnalyst &&
		o.AnalystID != nil && user.ID == *o.AnalystID
}
