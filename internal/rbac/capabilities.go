package rbac

import "schoolhub/internal/domain"

// Op enumerates the guarded entity operations. Services check
// Can(actor.Role, op) instead of comparing role strings inline, so the
// whole allowed-roles mapping lives in one table.
type Op int

const (
	OpCreateSchool Op = iota
	OpUpdateSchool
	OpDeleteSchool
	OpListSchools
	OpSchoolStats
	OpAssignSchoolAdmin

	OpCreateClassroom
	OpUpdateClassroom
	OpDeleteClassroom
	OpViewClassrooms

	OpEnrollStudent
	OpUpdateStudent
	OpTransferStudent
	OpGraduateStudent
	OpViewStudents

	OpViewUsers
	OpUpdateUser
	OpResetPassword
	OpAssignRole
	OpDeactivateUser
)

var capabilities = map[Op][]domain.Role{
	OpCreateSchool:      {domain.RoleSuperadmin},
	OpUpdateSchool:      {domain.RoleSuperadmin},
	OpDeleteSchool:      {domain.RoleSuperadmin},
	OpListSchools:       {domain.RoleSuperadmin, domain.RoleSchoolAdmin},
	OpSchoolStats:       {domain.RoleSuperadmin},
	OpAssignSchoolAdmin: {domain.RoleSuperadmin},

	OpCreateClassroom: {domain.RoleSchoolAdmin},
	OpUpdateClassroom: {domain.RoleSchoolAdmin},
	OpDeleteClassroom: {domain.RoleSchoolAdmin},
	OpViewClassrooms:  {domain.RoleSuperadmin, domain.RoleSchoolAdmin},

	OpEnrollStudent:   {domain.RoleSchoolAdmin},
	OpUpdateStudent:   {domain.RoleSchoolAdmin},
	OpTransferStudent: {domain.RoleSchoolAdmin},
	OpGraduateStudent: {domain.RoleSchoolAdmin},
	OpViewStudents:    {domain.RoleSuperadmin, domain.RoleSchoolAdmin},

	OpViewUsers:      {domain.RoleSuperadmin, domain.RoleSchoolAdmin},
	OpUpdateUser:     {domain.RoleSuperadmin, domain.RoleSchoolAdmin},
	OpResetPassword:  {domain.RoleSuperadmin, domain.RoleSchoolAdmin},
	OpAssignRole:     {domain.RoleSuperadmin},
	OpDeactivateUser: {domain.RoleSuperadmin, domain.RoleSchoolAdmin},
}

func Can(role domain.Role, op Op) bool {
	for _, allowed := range capabilities[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// creatableRoles is the user-creation matrix: who may create whom.
var creatableRoles = map[domain.Role][]domain.Role{
	domain.RoleSuperadmin:  {domain.RoleSchoolAdmin},
	domain.RoleSchoolAdmin: {domain.RoleStudent},
}

func CanCreateRole(creator, target domain.Role) bool {
	for _, allowed := range creatableRoles[creator] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CreatableRoles returns the roles a creator may create, for error
// messages.
func CreatableRoles(creator domain.Role) []domain.Role {
	return creatableRoles[creator]
}
