package platform

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when the referenced entity does not
// exist (or, for users, has been deleted).
var ErrNotFound = errors.New("platform: not found")

// UserLookup resolves user records from the host.
type UserLookup interface {
	// IsValidUser reports whether the user exists and is not deleted.
	IsValidUser(ctx context.Context, userID int64) (bool, error)

	// UserWithProfileFields returns the full user record including
	// custom profile field values. Returns ErrNotFound for missing or
	// deleted users.
	UserWithProfileFields(ctx context.Context, userID int64) (*User, error)
}

// CourseLookup resolves course and category records from the host.
type CourseLookup interface {
	// CourseByID returns a course record. Returns ErrNotFound when absent.
	CourseByID(ctx context.Context, courseID int64) (*Course, error)

	// CategoryByID returns a course category. Returns ErrNotFound when absent.
	CategoryByID(ctx context.Context, categoryID int64) (*Category, error)
}

// EnrolmentLookup resolves enrolment, role and group data from the host.
type EnrolmentLookup interface {
	// EnrolmentByID returns one user enrolment instance by its id
	// (the envelope's object id on enrolment events).
	EnrolmentByID(ctx context.Context, enrolmentID int64) (*Enrolment, error)

	// UserRoles returns the roles the user holds in the course context.
	UserRoles(ctx context.Context, courseID, userID int64) ([]Role, error)

	// UserGroups returns the course groups the user belongs to.
	UserGroups(ctx context.Context, courseID, userID int64) ([]Group, error)
}

// ModuleLookup resolves activity module instances from the host.
type ModuleLookup interface {
	// ModuleInstance returns the activity module instance record for a
	// course module, addressed by the event's context instance id. The
	// shape varies per activity type, so the record is a generic map.
	ModuleInstance(ctx context.Context, contextInstanceID int64) (map[string]any, error)
}

// RoleDirectory lists the host's role definitions.
type RoleDirectory interface {
	// ListRoles returns all roles in the host's sort order.
	ListRoles(ctx context.Context) ([]Role, error)
}

// ProfileFieldDirectory lists the host's custom profile field definitions.
type ProfileFieldDirectory interface {
	// ListProfileFields returns all field definitions ordered by
	// category then field sort order.
	ListProfileFields(ctx context.Context) ([]ProfileField, error)
}

// CapabilityChecker answers authorization queries against the host.
type CapabilityChecker interface {
	// HasSiteConfig reports whether the current actor holds the
	// system-level configuration capability.
	HasSiteConfig(ctx context.Context) (bool, error)
}

// Lookups bundles every host interface the forwarder consumes.
type Lookups struct {
	Users         UserLookup
	Courses       CourseLookup
	Enrolments    EnrolmentLookup
	Modules       ModuleLookup
	Roles         RoleDirectory
	ProfileFields ProfileFieldDirectory
	Capabilities  CapabilityChecker
}
