package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestPolicyCapabilities(t *testing.T) {
	policy := MustNewPolicy()

	tests := []struct {
		role domain.Role
		cap  Capability
		want bool
	}{
		{domain.RoleVisconAdmin, CapSeeAllTickets, true},
		{domain.RoleVisconEmployee, CapSeeAllTickets, true},
		{domain.RoleCustomerAdmin, CapSeeAllTickets, false},
		{domain.RoleCustomerEmployee, CapWorkTickets, false},
		{domain.RoleVisconEmployee, CapWorkTickets, true},
		{domain.RoleVisconAdmin, CapManageCompanies, true},
		{domain.RoleVisconEmployee, CapManageCompanies, false},
		{domain.RoleVisconEmployee, CapViewCompanies, true},
		{domain.RoleVisconAdmin, CapManageMachines, true},
		{domain.RoleVisconEmployee, CapManageMachines, false},
		{domain.RoleVisconEmployee, CapManageSolutions, true},
		{domain.RoleCustomerAdmin, CapManageSolutions, false},
		{domain.RoleCustomerAdmin, CapViewUsers, true},
		{domain.RoleCustomerEmployee, CapViewUsers, false},
		{domain.Role("Intruder"), CapViewMachines, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.Allows(tt.role, tt.cap), "%s %s/%s", tt.role, tt.cap.Object, tt.cap.Action)
	}
}

func TestCanRegisterUsers(t *testing.T) {
	policy := MustNewPolicy()

	anyCompany, own := policy.CanRegisterUsers(domain.RoleVisconAdmin)
	assert.True(t, anyCompany)
	assert.True(t, own)

	anyCompany, own = policy.CanRegisterUsers(domain.RoleCustomerAdmin)
	assert.False(t, anyCompany)
	assert.True(t, own)

	anyCompany, own = policy.CanRegisterUsers(domain.RoleVisconEmployee)
	assert.False(t, anyCompany)
	assert.False(t, own)
}
