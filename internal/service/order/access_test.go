package order

import (
	"testing"

	"github.com/cartorio-digital/siged/internal/domain"
)

func TestCanAccessOrder(t *testing.T) {
	analystID := "analyst-1"
	order := &domain.Order{ID: "ord-1", ClientID: "client-1", AnalystID: &analystID}
	unassigned := &domain.Order{ID: "ord-2", ClientID: "client-1"}

	tests := []struct {
		name  string
		user  *domain.User
		order *domain.Order
		want  bool
	}{
		{"owner client", &domain.User{ID: "client-1", Role: domain.UserRoleClient}, order, true},
		{"other client", &domain.User{ID: "client-2", Role: domain.UserRoleClient}, order, false},
		{"assigned analyst", &domain.User{ID: "analyst-1", Role: domain.UserRoleAnalyst}, order, true},
		{"unassigned analyst", &domain.User{ID: "analyst-2", Role: domain.UserRoleAnalyst}, order, false},
		{"analyst on unassigned order", &domain.User{ID: "analyst-1", Role: domain.UserRoleAnalyst}, unassigned, false},
		{"admin", &domain.User{ID: "admin-1", Role: domain.UserRoleAdmin}, order, true},
		{"nil user", nil, order, false},
		{"nil order", &domain.User{ID: "admin-1", Role: domain.UserRoleAdmin}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessOrder(tt.user, tt.order); got != tt.want {
				t.Errorf("CanAccessOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanFulfill(t *testing.T) {
	analystID := "analyst-1"
	order := &domain.Order{ID: "ord-1", ClientID: "client-1", AnalystID: &analystID}

	tests := []struct {
		name string
		user *domain.User
		want bool
	}{
		{"assigned analyst", &domain.User{ID: "analyst-1", Role: domain.UserRoleAnalyst}, true},
		{"unassigned analyst", &domain.User{ID: "analyst-2", Role: domain.UserRoleAnalyst}, false},
		{"admin", &domain.User{ID: "admin-1", Role: domain.UserRoleAdmin}, true},
		{"owner client", &domain.User{ID: "client-1", Role: domain.UserRoleClient}, false},
		{"assigned id with client role", &domain.User{ID: "analyst-1", Role: domain.UserRoleClient}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canFulfill(tt.user, order); got != tt.want {
				t.Errorf("canFulfill() = %v, want %v", got, tt.want)
			}
		})
	}
}
