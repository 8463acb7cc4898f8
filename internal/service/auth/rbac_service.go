package auth

import (
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
)

// Permission represents a single resource-action pair.
type Permission struct {
	Resource string
	Action   string
}

// RBACService maps roles to their allowed permissions. Per-order ownership
// (client owns it, analyst is assigned) is checked by the order package; this
// table answers the coarser "may this role ever do this" question.
//
// Resources: orders, quotes, assignments, messages, users, services, payments
// Actions:   read, write, manage
type RBACService struct {
	permissions map[domain.UserRole][]Permission
	log         *zap.Logger
}

func NewRBACService(log *zap.Logger) *RBACService {
	permissions := map[domain.UserRole][]Permission{
		domain.UserRoleAdmin: {
			{Resource: "orders", Action: "read"},
			{Resource: "orders", Action: "write"},
			{Resource: "orders", Action: "manage"},
			{Resource: "quotes", Action: "write"},
			{Resource: "assignments", Action: "write"},
			{Resource: "messages", Action: "read"},
			{Resource: "messages", Action: "write"},
			{Resource: "users", Action: "read"},
			{Resource: "users", Action: "manage"},
			{Resource: "services", Action: "read"},
			{Resource: "payments", Action: "read"},
		},
		domain.UserRoleAnalyst: {
			{Resource: "orders", Action: "read"},
			{Resource: "orders", Action: "write"},
			{Resource: "quotes", Action: "write"},
			{Resource: "messages", Action: "read"},
			{Resource: "messages", Action: "write"},
			{Resource: "services", Action: "read"},
		},
		domain.UserRoleClient: {
			{Resource: "orders", Action: "read"},
			{Resource: "orders", Action: "write"},
			{Resource: "messages", Action: "read"},
			{Resource: "messages", Action: "write"},
			{Resource: "services", Action: "read"},
			{Resource: "payments", Action: "read"},
		},
	}

	return &RBACService{
		permissions: permissions,
		log:         log,
	}
}

// HasPermission reports whether the role allows the action on the resource.
func (s *RBACService) HasPermission(role domain.UserRole, resource, action string) bool {
	for _, p := range s.permissions[role] {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
