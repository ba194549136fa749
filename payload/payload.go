// Package payload turns raw platform events into the normalized JSON
// bodies delivered to webhooks.
package payload

import (
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/platform"
)

// Payload is the wire body POSTed to every webhook of an event type.
// It repeats the full platform envelope, adds the semantic event tag,
// and for most types carries an enriched data snapshot.
type Payload struct {
	// Event is the semantic tag, always equal to the registry event type.
	Event string `json:"event"`

	EventName         string         `json:"eventname"`
	Component         string         `json:"component"`
	Action            string         `json:"action"`
	Target            string         `json:"target"`
	ObjectID          int64          `json:"objectid"`
	ObjectTable       string         `json:"objecttable"`
	CRUD              string         `json:"crud"`
	EduLevel          int            `json:"edulevel"`
	ContextID         int64          `json:"contextid"`
	ContextLevel      int            `json:"contextlevel"`
	ContextInstanceID int64          `json:"contextinstanceid"`
	UserID            int64          `json:"userid"`
	CourseID          int64          `json:"courseid"`
	RelatedUserID     int64          `json:"relateduserid"`
	Anonymous         bool           `json:"anonymous"`
	Other             map[string]any `json:"other"`
	TimeCreated       int64          `json:"timecreated"`

	// Data is the enriched entity snapshot. Omitted for event types
	// with no enrichment (user_login_failed).
	Data any `json:"data,omitempty"`
}

// UserData is the data snapshot for user-subject events: the full
// profile plus per-type extras.
type UserData struct {
	platform.User

	// Grade is set for user_graded.
	Grade *float64 `json:"grade,omitempty"`

	// Enrolment is set for user_enrolment_created/updated.
	Enrolment *EnrolmentDetail `json:"enrolment,omitempty"`

	// ModuleInstance is set for user_course_module_completed.
	ModuleInstance map[string]any `json:"moduleinstance,omitempty"`
}

// EnrolmentDetail is the enrolment snapshot attached to enrolment events.
type EnrolmentDetail struct {
	EnrolmentID int64            `json:"userenrolid"`
	UserID      int64            `json:"userid"`
	CourseID    int64            `json:"courseid"`
	CourseName  string           `json:"coursename"`
	Method      string           `json:"enrolmethod"`
	Status      string           `json:"status"`
	TimeStart   int64            `json:"timestart"`
	TimeEnd     int64            `json:"timeend"`
	Roles       []platform.Role  `json:"roles"`
	Groups      []platform.Group `json:"groups"`
}

// CourseData is the data snapshot for course events.
type CourseData struct {
	platform.Course

	// Category is omitted when the course's category no longer exists.
	Category *platform.Category `json:"category,omitempty"`
}

// envelope copies the platform envelope into a payload tagged with the
// event type. The body is identical for every webhook of the type; only
// the destination differs.
func envelope(et eventtype.Type, ev *platform.Event) *Payload {
	return &Payload{
		Event:             et.String(),
		EventName:         ev.EventName,
		Component:         ev.Component,
		Action:            ev.Action,
		Target:            ev.Target,
		ObjectID:          ev.ObjectID,
		ObjectTable:       ev.ObjectTable,
		CRUD:              ev.CRUD,
		EduLevel:          ev.EduLevel,
		ContextID:         ev.ContextID,
		ContextLevel:      ev.ContextLevel,
		ContextInstanceID: ev.ContextInstanceID,
		UserID:            ev.UserID,
		CourseID:          ev.CourseID,
		RelatedUserID:     ev.RelatedUserID,
		Anonymous:         ev.Anonymous,
		Other:             ev.Other,
		TimeCreated:       ev.TimeCreated,
	}
}
