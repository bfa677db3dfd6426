package user

type Permission string

const (
	PermissionAttendanceOwn    Permission = "attendance.own"
	PermissionAttendanceManage Permission = "attendance.manage"
	PermissionAttendanceDelete Permission = "attendance.delete"
	PermissionShiftManage      Permission = "shift.manage"
	PermissionReportExport     Permission = "report.export"
	PermissionDashboardAll     Permission = "dashboard.all"
	PermissionUserManage       Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceOwn,
		PermissionAttendanceManage,
		PermissionAttendanceDelete,
		PermissionShiftManage,
		PermissionReportExport,
		PermissionDashboardAll,
		PermissionUserManage,
	},
	RoleOperator: {
		PermissionAttendanceOwn,
		PermissionAttendanceManage,
		PermissionReportExport,
		PermissionDashboardAll,
	},
	RoleGuru: {
		PermissionAttendanceOwn,
	},
	RoleKaryawan: {
		PermissionAttendanceOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
