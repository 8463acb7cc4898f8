package auth

import (
	"testing"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
)

func TestRBAC_Permissions(t *testing.T) {
	rbac := NewRBACService(zap.NewNop())

	cases := []struct {
		name     string
		role     domain.UserRole
		resource string
		action   string
		want     bool
	}{
		{"admin manages users", domain.UserRoleAdmin, "users", "manage", true},
		{"admin manages orders", domain.UserRoleAdmin, "orders", "manage", true},
		{"analyst quotes", domain.UserRoleAnalyst, "quotes", "write", true},
		{"analyst cannot manage users", domain.UserRoleAnalyst, "users", "manage", false},
		{"client reads own payments", domain.UserRoleClient, "payments", "read", true},
		{"client cannot quote", domain.UserRoleClient, "quotes", "write", false},
		{"client cannot manage users", domain.UserRoleClient, "users", "manage", false},
		{"unknown role denied", domain.UserRole("visitor"), "orders", "read", false},
		{"unknown resource denied", domain.UserRoleAdmin, "invoices", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rbac.HasPermission(tc.role, tc.resource, tc.action)
			if got != tc.want {
				t.Errorf("HasPermission(%s, %s, %s) = %v, want %v", tc.role, tc.resource, tc.action, got, tc.want)
			}
		})
	}
}
