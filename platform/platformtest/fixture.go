// Package platformtest provides an in-memory host fixture for unit tests.
package platformtest

import (
	"context"
	"sync"

	"github.com/lmsflow/lmsflow/platform"
)

// Fixture implements every platform lookup interface against in-memory
// maps. Seed it with the entities a test needs; unseeded lookups return
// platform.ErrNotFound.
type Fixture struct {
	mu sync.RWMutex

	users         map[int64]*platform.User
	deleted       map[int64]bool
	courses       map[int64]*platform.Course
	categories    map[int64]*platform.Category
	enrolments    map[int64]*platform.Enrolment
	courseRoles   map[[2]int64][]platform.Role
	courseGroups  map[[2]int64][]platform.Group
	modules       map[int64]map[string]any
	allRoles      []platform.Role
	profileFields []platform.ProfileField

	// SiteConfig controls HasSiteConfig. Defaults to true so registry
	// tests exercise the happy path unless a test flips it.
	SiteConfig bool
}

// New creates an empty fixture with the site-config capability granted.
func New() *Fixture {
	return &Fixture{
		users:        make(map[int64]*platform.User),
		deleted:      make(map[int64]bool),
		courses:      make(map[int64]*platform.Course),
		categories:   make(map[int64]*platform.Category),
		enrolments:   make(map[int64]*platform.Enrolment),
		courseRoles:  make(map[[2]int64][]platform.Role),
		courseGroups: make(map[[2]int64][]platform.Group),
		modules:      make(map[int64]map[string]any),
		SiteConfig:   true,
	}
}

// Lookups returns the fixture packaged as platform.Lookups.
func (f *Fixture) Lookups() platform.Lookups {
	return platform.Lookups{
		Users:         f,
		Courses:       f,
		Enrolments:    f,
		Modules:       f,
		Roles:         f,
		ProfileFields: f,
		Capabilities:  f,
	}
}

// ──────────────────────────────────────────────────
// Seeding
// ──────────────────────────────────────────────────

// AddUser seeds a user record.
func (f *Fixture) AddUser(u *platform.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

// MarkDeleted flags a user as soft-deleted on the host.
func (f *Fixture) MarkDeleted(userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[userID] = true
}

// AddCourse seeds a course record.
func (f *Fixture) AddCourse(c *platform.Course) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses[c.ID] = c
}

// AddCategory seeds a course category.
func (f *Fixture) AddCategory(c *platform.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[c.ID] = c
}

// AddEnrolment seeds a user enrolment instance.
func (f *Fixture) AddEnrolment(e *platform.Enrolment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolments[e.ID] = e
}

// SetUserRoles seeds the roles a user holds in a course context.
func (f *Fixture) SetUserRoles(courseID, userID int64, roles []platform.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courseRoles[[2]int64{courseID, userID}] = roles
}

// SetUserGroups seeds the groups a user belongs to in a course.
func (f *Fixture) SetUserGroups(courseID, userID int64, groups []platform.Group) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courseGroups[[2]int64{courseID, userID}] = groups
}

// AddModuleInstance seeds an activity module instance record, addressed
// by context instance id.
func (f *Fixture) AddModuleInstance(contextInstanceID int64, record map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules[contextInstanceID] = record
}

// SetRoles seeds the role directory.
func (f *Fixture) SetRoles(roles []platform.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allRoles = roles
}

// SetProfileFields seeds the profile field directory.
func (f *Fixture) SetProfileFields(fields []platform.ProfileField) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileFields = fields
}

// ──────────────────────────────────────────────────
// platform.UserLookup
// ──────────────────────────────────────────────────

// IsValidUser reports whether the user exists and is not deleted.
func (f *Fixture) IsValidUser(_ context.Context, userID int64) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.users[userID]
	return ok && !f.deleted[userID], nil
}

// UserWithProfileFields returns the seeded user record.
func (f *Fixture) UserWithProfileFields(_ context.Context, userID int64) (*platform.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[userID]
	if !ok || f.deleted[userID] {
		return nil, platform.ErrNotFound
	}
	return u, nil
}

// ──────────────────────────────────────────────────
// platform.CourseLookup
// ──────────────────────────────────────────────────

// CourseByID returns the seeded course record.
func (f *Fixture) CourseByID(_ context.Context, courseID int64) (*platform.Course, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.courses[courseID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return c, nil
}

// CategoryByID returns the seeded category.
func (f *Fixture) CategoryByID(_ context.Context, categoryID int64) (*platform.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.categories[categoryID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return c, nil
}

// ──────────────────────────────────────────────────
// platform.EnrolmentLookup
// ──────────────────────────────────────────────────

// EnrolmentByID returns the seeded enrolment instance.
func (f *Fixture) EnrolmentByID(_ context.Context, enrolmentID int64) (*platform.Enrolment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.enrolments[enrolmentID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return e, nil
}

// UserRoles returns the seeded course-context roles.
func (f *Fixture) UserRoles(_ context.Context, courseID, userID int64) ([]platform.Role, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.courseRoles[[2]int64{courseID, userID}], nil
}

// UserGroups returns the seeded course groups.
func (f *Fixture) UserGroups(_ context.Context, courseID, userID int64) ([]platform.Group, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.courseGroups[[2]int64{courseID, userID}], nil
}

// ──────────────────────────────────────────────────
// platform.ModuleLookup
// ──────────────────────────────────────────────────

// ModuleInstance returns the seeded activity module record.
func (f *Fixture) ModuleInstance(_ context.Context, contextInstanceID int64) (map[string]any, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.modules[contextInstanceID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return m, nil
}

// ──────────────────────────────────────────────────
// Directories and capabilities
// ──────────────────────────────────────────────────

// ListRoles returns the seeded role directory.
func (f *Fixture) ListRoles(_ context.Context) ([]platform.Role, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.allRoles, nil
}

// ListProfileFields returns the seeded profile field directory.
func (f *Fixture) ListProfileFields(_ context.Context) ([]platform.ProfileField, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profileFields, nil
}

// HasSiteConfig reports the fixture's SiteConfig flag.
func (f *Fixture) HasSiteConfig(_ context.Context) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.SiteConfig, nil
}
