// Package platform defines the read-only surface of the host LMS.
//
// The forwarder never touches the host's database or domain model
// directly: it receives event envelopes from the host's event bus and
// resolves supplementary data through the narrow lookup interfaces in
// this package. The host (or a test fixture) supplies implementations.
package platform

// Event is the envelope the host platform hands to event observers.
// It is owned by the host and read-only to the forwarder.
type Event struct {
	// EventName is the fully-qualified event class name,
	// e.g. `\core\event\user_created`.
	EventName string `json:"eventname"`

	Component string `json:"component"`
	Action    string `json:"action"`
	Target    string `json:"target"`

	// ObjectID identifies the primary record the event is about, in the
	// table named by ObjectTable.
	ObjectID    int64  `json:"objectid"`
	ObjectTable string `json:"objecttable"`

	// CRUD is one of "c", "r", "u", "d".
	CRUD string `json:"crud"`

	// EduLevel is the host's educational-significance level.
	EduLevel int `json:"edulevel"`

	ContextID         int64 `json:"contextid"`
	ContextLevel      int   `json:"contextlevel"`
	ContextInstanceID int64 `json:"contextinstanceid"`

	// UserID is the acting user; RelatedUserID is the user the action
	// was performed on, where that differs.
	UserID        int64 `json:"userid"`
	CourseID      int64 `json:"courseid"`
	RelatedUserID int64 `json:"relateduserid"`

	Anonymous bool `json:"anonymous"`

	// Other is the event's free-form extra data (e.g. "finalgrade" on
	// grading events).
	Other map[string]any `json:"other"`

	// TimeCreated is the event timestamp as a unix epoch.
	TimeCreated int64 `json:"timecreated"`
}
