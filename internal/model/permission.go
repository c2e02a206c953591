package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionJobsRead allows viewing jobs and their configuration.
	PermissionJobsRead Permission = "jobs:read"

	// PermissionJobsWrite allows creating and updating jobs.
	PermissionJobsWrite Permission = "jobs:write"

	// PermissionSetsRead allows viewing assessment sets and questions.
	PermissionSetsRead Permission = "sets:read"

	// PermissionSetsWrite allows creating and activating assessment sets.
	PermissionSetsWrite Permission = "sets:write"

	// PermissionCandidatesRead allows viewing candidate assessments and results.
	PermissionCandidatesRead Permission = "candidates:read"

	// PermissionCandidatesEvaluate allows triggering (re-)evaluation.
	PermissionCandidatesEvaluate Permission = "candidates:evaluate"

	// PermissionCandidatesDecide allows recording the final decision.
	PermissionCandidatesDecide Permission = "candidates:decide"

	// PermissionProctorMonitor allows streaming live proctoring events.
	PermissionProctorMonitor Permission = "proctor:monitor"

	// PermissionAdminsRead allows viewing admin user lists and details.
	PermissionAdminsRead Permission = "admins:read"

	// PermissionAdminsWrite allows creating, updating, and deleting admin users.
	PermissionAdminsWrite Permission = "admins:write"

	// PermissionRolesRead allows viewing admin roles and permissions.
	PermissionRolesRead Permission = "roles:read"

	// PermissionRolesWrite allows creating, updating, and deleting admin roles.
	PermissionRolesWrite Permission = "roles:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionJobsRead,
	PermissionJobsWrite,
	PermissionSetsRead,
	PermissionSetsWrite,
	PermissionCandidatesRead,
	PermissionCandidatesEvaluate,
	PermissionCandidatesDecide,
	PermissionProctorMonitor,
	PermissionAdminsRead,
	PermissionAdminsWrite,
	PermissionRolesRead,
	PermissionRolesWrite,
}
