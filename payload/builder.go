package payload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/platform"
)

// Builder assembles normalized payloads from platform events, pulling
// supplementary data through the host lookups.
type Builder struct {
	lookups platform.Lookups
	logger  *slog.Logger
}

// NewBuilder creates a payload builder over the given host lookups.
func NewBuilder(lookups platform.Lookups, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{lookups: lookups, logger: logger}
}

// SubjectID resolves the subject user id from the envelope field the
// event type designates. Returns 0 for types with no user subject.
func SubjectID(et eventtype.Type, ev *platform.Event) int64 {
	switch et.Subject() {
	case eventtype.SubjectObjectID:
		return ev.ObjectID
	case eventtype.SubjectRelatedUserID:
		return ev.RelatedUserID
	default:
		return 0
	}
}

// Qualifies reports whether the event should be forwarded at all: the
// envelope's fully-qualified name must match the type's source event
// (re-checked independently of the host's observer routing), and the
// subject must be a valid account for types that require one.
//
// A false result means skip; it is not an error.
func (b *Builder) Qualifies(ctx context.Context, et eventtype.Type, ev *platform.Event) (bool, error) {
	if ev.EventName != et.Source() {
		b.logger.DebugContext(ctx, "event source mismatch",
			"eventtype", et, "expected", et.Source(), "got", ev.EventName)
		return false, nil
	}

	if !et.ChecksSubject() {
		return true, nil
	}

	subjectID := SubjectID(et, ev)
	if subjectID <= 0 {
		return false, nil
	}

	valid, err := b.lookups.Users.IsValidUser(ctx, subjectID)
	if err != nil {
		return false, fmt.Errorf("payload: validate subject %d: %w", subjectID, err)
	}
	return valid, nil
}

// Build produces the normalized payload for a qualifying event. The
// result is identical for every webhook of the event type.
func (b *Builder) Build(ctx context.Context, et eventtype.Type, ev *platform.Event) (*Payload, error) {
	p := envelope(et, ev)

	switch et.Enrichment() {
	case eventtype.EnrichNone:
		// user_login_failed: the envelope is the whole story.

	case eventtype.EnrichUser:
		user, err := b.subjectData(ctx, et, ev)
		if err != nil {
			return nil, err
		}
		p.Data = user

	case eventtype.EnrichUserGrade:
		user, err := b.subjectData(ctx, et, ev)
		if err != nil {
			return nil, err
		}
		if g, ok := gradeFromEnvelope(ev); ok {
			user.Grade = &g
		}
		p.Data = user

	case eventtype.EnrichUserEnrolment:
		user, err := b.subjectData(ctx, et, ev)
		if err != nil {
			return nil, err
		}
		detail, err := b.enrolmentDetail(ctx, ev)
		if err != nil {
			return nil, err
		}
		user.Enrolment = detail
		p.Data = user

	case eventtype.EnrichUserModule:
		user, err := b.subjectData(ctx, et, ev)
		if err != nil {
			return nil, err
		}
		instance, err := b.lookups.Modules.ModuleInstance(ctx, ev.ContextInstanceID)
		if err != nil && !errors.Is(err, platform.ErrNotFound) {
			return nil, fmt.Errorf("payload: module instance %d: %w", ev.ContextInstanceID, err)
		}
		user.ModuleInstance = instance
		p.Data = user

	case eventtype.EnrichCourse:
		course, err := b.courseData(ctx, ev.CourseID)
		if err != nil {
			return nil, err
		}
		p.Data = course
	}

	return p, nil
}

// subjectData fetches the subject's profile as the mutable data snapshot
// the per-type strategies decorate.
func (b *Builder) subjectData(ctx context.Context, et eventtype.Type, ev *platform.Event) (*UserData, error) {
	subjectID := SubjectID(et, ev)
	user, err := b.lookups.Users.UserWithProfileFields(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("payload: user %d: %w", subjectID, err)
	}
	return &UserData{User: *user}, nil
}

// enrolmentDetail assembles the enrolment snapshot for enrolment
// created/updated events; the envelope's object id is the enrolment id.
func (b *Builder) enrolmentDetail(ctx context.Context, ev *platform.Event) (*EnrolmentDetail, error) {
	enr, err := b.lookups.Enrolments.EnrolmentByID(ctx, ev.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("payload: enrolment %d: %w", ev.ObjectID, err)
	}

	roles, err := b.lookups.Enrolments.UserRoles(ctx, enr.CourseID, enr.UserID)
	if err != nil {
		return nil, fmt.Errorf("payload: roles for user %d in course %d: %w", enr.UserID, enr.CourseID, err)
	}

	groups, err := b.lookups.Enrolments.UserGroups(ctx, enr.CourseID, enr.UserID)
	if err != nil {
		return nil, fmt.Errorf("payload: groups for user %d in course %d: %w", enr.UserID, enr.CourseID, err)
	}

	if roles == nil {
		roles = []platform.Role{}
	}
	if groups == nil {
		groups = []platform.Group{}
	}

	return &EnrolmentDetail{
		EnrolmentID: enr.ID,
		UserID:      enr.UserID,
		CourseID:    enr.CourseID,
		CourseName:  enr.CourseName,
		Method:      enr.Method,
		Status:      enrolmentStatus(enr.StatusCode),
		TimeStart:   enr.TimeStart,
		TimeEnd:     enr.TimeEnd,
		Roles:       roles,
		Groups:      groups,
	}, nil
}

// courseData fetches the course record and its category. A missing
// category is tolerated: the field is simply omitted.
func (b *Builder) courseData(ctx context.Context, courseID int64) (*CourseData, error) {
	course, err := b.lookups.Courses.CourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("payload: course %d: %w", courseID, err)
	}

	data := &CourseData{Course: *course}

	category, err := b.lookups.Courses.CategoryByID(ctx, course.CategoryID)
	switch {
	case err == nil:
		data.Category = category
	case errors.Is(err, platform.ErrNotFound):
		// Courses can outlive their category.
	default:
		return nil, fmt.Errorf("payload: category %d: %w", course.CategoryID, err)
	}

	return data, nil
}

// enrolmentStatus maps the host's raw status code: 0 is active, any
// other value is suspended.
func enrolmentStatus(code int) string {
	if code == 0 {
		return "active"
	}
	return "suspended"
}

// gradeFromEnvelope extracts the numeric grade a grading event carries
// in its free-form extra data.
func gradeFromEnvelope(ev *platform.Event) (float64, bool) {
	raw, ok := ev.Other["finalgrade"]
	if !ok {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		g, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return g, true
	default:
		return 0, false
	}
}
