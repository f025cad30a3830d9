// Package tenancy decides whether a verified identity may act on a given
// university's data. It is a pure decision layer: no storage, no caching, no
// web machinery.
package tenancy

import (
	"campus/internal/infrastructure/auth"
	"campus/internal/shared/constants"
)

// CanAccess reports whether the identity behind claims may act on the
// requested tenant. Policy, in order:
//
//  1. admin and system identities operate across tenants and are always
//     allowed;
//  2. everyone else is allowed only on the exact tenant fixed in their token
//     at login;
//  3. a missing tenant claim on a non-privileged identity is a denial, never
//     a default-allow.
func CanAccess(claims *auth.Claims, requestedTenantID string) bool {
	if claims == nil {
		return false
	}
	if IsCrossTenantRole(claims.Role) {
		return true
	}
	if claims.TenantID == "" {
		return false
	}
	return claims.TenantID == requestedTenantID
}

// IsCrossTenantRole reports whether the role may operate on any tenant.
func IsCrossTenantRole(role string) bool {
	return role == constants.RoleAdmin || role == constants.RoleSystem
}
