// Package eventtype enumerates the platform events that can be forwarded
// to webhooks.
//
// The set is closed: subscriptions may only be registered for one of the
// types below, and every type carries a trait row describing how the
// forwarder handles it — which raw platform event it maps to, where the
// subject user id lives in the envelope, whether the subject must be a
// valid account, whether course-metadata filtering applies, and which
// enrichment strategy builds the payload's data field.
package eventtype

// Type is a webhook event type.
type Type string

// The full set of forwardable event types.
const (
	UserCreated               Type = "user_created"
	UserUpdated               Type = "user_updated"
	UserLoggedIn              Type = "user_logged_in"
	UserLoggedOut             Type = "user_logged_out"
	UserLoginFailed           Type = "user_login_failed"
	UserGraded                Type = "user_graded"
	UserEnrolmentCreated      Type = "user_enrolment_created"
	UserEnrolmentUpdated      Type = "user_enrolment_updated"
	UserEnrolmentDeleted      Type = "user_enrolment_deleted"
	UserCourseCompleted       Type = "user_course_completed"
	UserCourseModuleCompleted Type = "user_course_module_completed"
	CourseCreated             Type = "course_created"
	CourseUpdated             Type = "course_updated"
)

// Subject identifies which envelope field holds the subject user id.
type Subject int

const (
	// SubjectNone means the event has no user subject (course events).
	SubjectNone Subject = iota

	// SubjectObjectID means the subject is the envelope's object id
	// (user identity and session events).
	SubjectObjectID

	// SubjectRelatedUserID means the subject is the envelope's related
	// user id (enrolment, grading and completion events).
	SubjectRelatedUserID
)

// Enrichment selects the strategy that assembles the payload's data field.
type Enrichment int

const (
	// EnrichNone emits the bare envelope with no data field.
	EnrichNone Enrichment = iota

	// EnrichUser attaches the subject's full profile.
	EnrichUser

	// EnrichUserGrade attaches the profile plus the numeric grade.
	EnrichUserGrade

	// EnrichUserEnrolment attaches the profile plus the enrolment snapshot.
	EnrichUserEnrolment

	// EnrichUserModule attaches the profile plus the activity module instance.
	EnrichUserModule

	// EnrichCourse attaches the course record plus its category.
	EnrichCourse
)

// traits describes how the forwarder treats one event type.
type traits struct {
	// source is the fully-qualified platform event name this type maps to.
	source string

	// subject says where the subject user id lives in the envelope.
	subject Subject

	// checkSubject requires the subject to be an existing, non-deleted
	// account before any enrichment or delivery happens.
	checkSubject bool

	// courseFilter enables the per-subscription courseid metadata filter.
	courseFilter bool

	enrich Enrichment
}

var table = map[Type]traits{
	UserCreated:     {source: `\core\event\user_created`, subject: SubjectObjectID, checkSubject: true, enrich: EnrichUser},
	UserUpdated:     {source: `\core\event\user_updated`, subject: SubjectObjectID, checkSubject: true, enrich: EnrichUser},
	UserLoggedIn:    {source: `\core\event\user_loggedin`, subject: SubjectObjectID, checkSubject: true, enrich: EnrichUser},
	UserLoggedOut:   {source: `\core\event\user_loggedout`, subject: SubjectObjectID, checkSubject: true, enrich: EnrichUser},
	UserLoginFailed: {source: `\core\event\user_login_failed`, subject: SubjectObjectID, enrich: EnrichNone},

	UserGraded:           {source: `\core\event\user_graded`, subject: SubjectRelatedUserID, checkSubject: true, courseFilter: true, enrich: EnrichUserGrade},
	UserEnrolmentCreated: {source: `\core\event\user_enrolment_created`, subject: SubjectRelatedUserID, checkSubject: true, courseFilter: true, enrich: EnrichUserEnrolment},
	UserEnrolmentUpdated: {source: `\core\event\user_enrolment_updated`, subject: SubjectRelatedUserID, checkSubject: true, courseFilter: true, enrich: EnrichUserEnrolment},
	UserEnrolmentDeleted: {source: `\core\event\user_enrolment_deleted`, subject: SubjectRelatedUserID, checkSubject: true, courseFilter: true, enrich: EnrichUser},

	UserCourseCompleted:       {source: `\core\event\course_completed`, subject: SubjectRelatedUserID, checkSubject: true, courseFilter: true, enrich: EnrichUser},
	UserCourseModuleCompleted: {source: `\core\event\course_module_completion_updated`, subject: SubjectRelatedUserID, checkSubject: true, courseFilter: true, enrich: EnrichUserModule},

	CourseCreated: {source: `\core\event\course_created`, subject: SubjectNone, enrich: EnrichCourse},
	CourseUpdated: {source: `\core\event\course_updated`, subject: SubjectNone, enrich: EnrichCourse},
}

// bySource is the reverse index from platform event names.
var bySource = func() map[string]Type {
	m := make(map[string]Type, len(table))
	for t, tr := range table {
		m[tr.source] = t
	}
	return m
}()

// All returns every forwardable event type in a stable order.
func All() []Type {
	return []Type{
		UserCreated,
		UserUpdated,
		UserLoggedIn,
		UserLoggedOut,
		UserLoginFailed,
		UserGraded,
		UserEnrolmentCreated,
		UserEnrolmentUpdated,
		UserEnrolmentDeleted,
		UserCourseCompleted,
		UserCourseModuleCompleted,
		CourseCreated,
		CourseUpdated,
	}
}

// Parse validates a raw string against the closed set.
func Parse(s string) (Type, bool) {
	t := Type(s)
	_, ok := table[t]
	return t, ok
}

// FromSource maps a fully-qualified platform event name to its webhook
// event type. Unobserved platform events return ok=false.
func FromSource(name string) (Type, bool) {
	t, ok := bySource[name]
	return t, ok
}

// String returns the registry representation of the type.
func (t Type) String() string { return string(t) }

// Valid reports whether t belongs to the closed set.
func (t Type) Valid() bool {
	_, ok := table[t]
	return ok
}

// Source returns the fully-qualified platform event name for t.
func (t Type) Source() string { return table[t].source }

// Subject returns which envelope field holds the subject user id.
func (t Type) Subject() Subject { return table[t].subject }

// ChecksSubject reports whether the subject must be a valid account.
// user_login_failed opts out: the attempted username may not map to any
// account at all, and the event is still worth forwarding.
func (t Type) ChecksSubject() bool { return table[t].checkSubject }

// CourseFilterable reports whether the per-subscription courseid
// metadata filter applies to this type.
func (t Type) CourseFilterable() bool { return table[t].courseFilter }

// Enrichment returns the payload enrichment strategy for t.
func (t Type) Enrichment() Enrichment { return table[t].enrich }

// Sources returns the platform event names the host should register
// observers for, in the same order as All.
func Sources() []string {
	types := All()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Source()
	}
	return out
}
