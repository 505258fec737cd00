// Package rbac holds the fixed role permission table and the
// capability checks used by the entity services. The table is built
// once at init and never mutated.
package rbac

import (
	"regexp"
	"strings"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/fault"
)

// Actor is the request context injected by the authorization
// middleware and consumed by every entity service operation.
type Actor struct {
	UserID   int64
	Role     domain.Role
	SchoolID *int64
}

// permission gates one role. allowedMethods nil means any method;
// restrictedMethods lists denied methods per exact path pattern.
type permission struct {
	allowAll          bool
	allowedPaths      []*pathPattern
	allowedMethods    map[string]bool
	restrictedMethods map[string][]string
}

type pathPattern struct {
	raw string
	re  *regexp.Regexp
}

// compilePattern turns "/api/schools/:schoolId" into a regexp where
// each :param matches exactly one path segment.
func compilePattern(raw string) *pathPattern {
	parts := strings.Split(raw, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "[^/]+"
		} else {
			parts[i] = regexp.QuoteMeta(p)
		}
	}
	return &pathPattern{raw: raw, re: regexp.MustCompile("^" + strings.Join(parts, "/") + "$")}
}

func compileAll(raws ...string) []*pathPattern {
	out := make([]*pathPattern, 0, len(raws))
	for _, r := range raws {
		out = append(out, compilePattern(r))
	}
	return out
}

var table = map[domain.Role]*permission{
	domain.RoleSuperadmin: {
		allowAll: true,
	},
	domain.RoleSchoolAdmin: {
		allowedPaths: compileAll(
			"/api/schools",
			"/api/schools/:schoolId",
			"/api/classrooms",
			"/api/classrooms/:classroomId",
			"/api/classrooms/:classroomId/resources",
			"/api/classrooms/:classroomId/schedule",
			"/api/students",
			"/api/students/:studentId",
			"/api/students/:studentId/transfer",
			"/api/students/:studentId/graduate",
			"/api/users",
			"/api/users/:userId",
			"/api/users/:userId/password",
			"/api/users/:userId/reset-password",
			"/api/users/:userId/deactivate",
		),
		restrictedMethods: map[string][]string{
			"/api/schools": {"POST", "DELETE"},
			"/api/users":   {"DELETE"},
		},
	},
	domain.RoleStudent: {
		allowedPaths: compileAll(
			"/api/students/profile",
			"/api/classrooms/:classroomId/schedule",
		),
		allowedMethods: map[string]bool{"GET": true},
	},
}

// Allow applies the path/method gate for a role. Superadmin bypasses
// the table entirely.
func Allow(role domain.Role, path, method string) error {
	perm, ok := table[role]
	if !ok {
		return fault.ErrInvalidRole
	}
	if perm.allowAll {
		return nil
	}

	matched := ""
	for _, p := range perm.allowedPaths {
		if p.re.MatchString(path) {
			matched = p.raw
			break
		}
	}
	if matched == "" {
		return fault.ErrPathDenied
	}

	if perm.allowedMethods != nil && !perm.allowedMethods[method] {
		return fault.ErrMethodDenied
	}
	for _, denied := range perm.restrictedMethods[path] {
		if denied == method {
			return fault.ErrMethodDenied
		}
	}
	return nil
}

// ParseRole validates a role claim coming off a token.
func ParseRole(raw string) (domain.Role, error) {
	role := domain.Role(raw)
	if !role.Valid() {
		return "", fault.ErrInvalidRole
	}
	return role, nil
}
