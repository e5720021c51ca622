package identity

import "github.com/ramenshop/backend/internal/domain/shared"

// Permission codes checked by the HTTP layer
const (
	PermCatalogWrite     = "catalog:write"
	PermOrdersManage     = "orders:manage"
	PermInventoryWrite   = "inventory:write"
	PermScheduleManage   = "schedule:manage"
	PermTimeclockUse     = "timeclock:use"
	PermTimeclockManage  = "timeclock:manage"
	PermReportsRead      = "reports:read"
	PermAssistantUse     = "assistant:use"
	PermContactRead      = "contact:read"
	PermUsersManage      = "users:manage"
	PermUploadsWrite     = "uploads:write"
	PermInventoryRead    = "inventory:read"
	PermScheduleReadSelf = "schedule:read_self"
)

var rolePermissions = map[shared.Role][]string{
	shared.RoleCustomer: {},
	shared.RoleEmployee: {
		PermInventoryRead,
		PermInventoryWrite,
		PermTimeclockUse,
		PermScheduleReadSelf,
		PermOrdersManage,
		PermAssistantUse,
		PermUploadsWrite,
	},
	shared.RoleAdmin: {
		PermCatalogWrite,
		PermOrdersManage,
		PermInventoryRead,
		PermInventoryWrite,
		PermScheduleManage,
		PermScheduleReadSelf,
		PermTimeclockUse,
		PermTimeclockManage,
		PermReportsRead,
		PermAssistantUse,
		PermContactRead,
		PermUsersManage,
		PermUploadsWrite,
	},
}

// PermissionsFor returns the permission codes granted to a role
func PermissionsFor(role shared.Role) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
