package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus/internal/infrastructure/auth"
	"campus/internal/shared/constants"
)

func claimsWith(tenantID, role string) *auth.Claims {
	return &auth.Claims{
		TenantID: tenantID,
		Role:     role,
	}
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name      string
		claims    *auth.Claims
		requested string
		want      bool
	}{
		{
			name:      "exact tenant match",
			claims:    claimsWith("uni_abc", constants.RoleStaff),
			requested: "uni_abc",
			want:      true,
		},
		{
			name:      "different tenant denied",
			claims:    claimsWith("uni_abc", constants.RoleStaff),
			requested: "uni_xyz",
			want:      false,
		},
		{
			name:      "admin crosses tenants",
			claims:    claimsWith("", constants.RoleAdmin),
			requested: "uni_xyz",
			want:      true,
		},
		{
			name:      "system role crosses tenants",
			claims:    claimsWith("", constants.RoleSystem),
			requested: "uni_xyz",
			want:      true,
		},
		{
			name:      "admin with assigned tenant still crosses",
			claims:    claimsWith("uni_abc", constants.RoleAdmin),
			requested: "uni_xyz",
			want:      true,
		},
		{
			name:      "empty tenant claim denied",
			claims:    claimsWith("", constants.RoleStaff),
			requested: "uni_xyz",
			want:      false,
		},
		{
			name:      "empty tenant claim denied even for empty request",
			claims:    claimsWith("", constants.RoleStaff),
			requested: "",
			want:      false,
		},
		{
			name:      "nil claims denied",
			claims:    nil,
			requested: "uni_abc",
			want:      false,
		},
		{
			name:      "tenant ids are case sensitive",
			claims:    claimsWith("uni_abc", constants.RoleStaff),
			requested: "UNI_ABC",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.claims, tt.requested))
		})
	}
}

func TestIsCrossTenantRole(t *testing.T) {
	assert.True(t, IsCrossTenantRole(constants.RoleAdmin))
	assert.True(t, IsCrossTenantRole(constants.RoleSystem))
	assert.False(t, IsCrossTenantRole(constants.RoleStaff))
	assert.False(t, IsCrossTenantRole(""))
	assert.False(t, IsCrossTenantRole("Admin"))
}
