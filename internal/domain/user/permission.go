package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Employee Registry
	PermissionEmployeeView    Permission = "employee.view"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionEmployeeArchive Permission = "employee.archive"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	// Tasks
	PermissionTaskViewOwn Permission = "task.view_own"
	PermissionTaskViewAll Permission = "task.view_all"
	PermissionTaskManage  Permission = "task.manage"

	// Salary
	PermissionSalaryView  Permission = "salary.view"
	PermissionSalaryStats Permission = "salary.stats"
	PermissionSalaryPay   Permission = "salary.pay"

	// Analytics
	PermissionAnalyticsView Permission = "analytics.view"
	PermissionAnalyticsFull Permission = "analytics.full"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionViewOwnProfile,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionEmployeeArchive,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionTaskViewOwn,
		PermissionTaskViewAll,
		PermissionTaskManage,
		PermissionSalaryView,
		PermissionSalaryStats,
		PermissionSalaryPay,
		PermissionAnalyticsView,
		PermissionAnalyticsFull,
		PermissionUserManage,
	},
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionTaskViewOwn,
		PermissionTaskViewAll,
		PermissionSalaryView,
		PermissionSalaryStats,
		PermissionAnalyticsView,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionEmployeeView,
		PermissionAttendanceViewOwn,
		PermissionTaskViewOwn,
		PermissionSalaryView,
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
