package platform

// User is the host's user record enriched with custom profile field values.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"firstname,omitempty"`
	LastName    string `json:"lastname,omitempty"`
	FullName    string `json:"fullname,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone1      string `json:"phone1,omitempty"`
	Phone2      string `json:"phone2,omitempty"`
	Department  string `json:"department,omitempty"`
	Institution string `json:"institution,omitempty"`
	IDNumber    string `json:"idnumber,omitempty"`
	Interests   string `json:"interests,omitempty"`
	FirstAccess int64  `json:"firstaccess,omitempty"`
	LastAccess  int64  `json:"lastaccess,omitempty"`
	Auth        string `json:"auth,omitempty"`
	Suspended   bool   `json:"suspended,omitempty"`
	Confirmed   bool   `json:"confirmed,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Description string `json:"description,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`

	// CustomFields holds the values of custom profile fields.
	CustomFields []ProfileFieldValue `json:"customfields,omitempty"`
}

// ProfileFieldValue is one custom profile field value on a user.
type ProfileFieldValue struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Value     string `json:"value"`
}

// ProfileField describes a custom profile field definition.
type ProfileField struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"shortname"`
	Description  string `json:"description"`
	DataType     string `json:"datatype"`
	CategoryID   int64  `json:"categoryid"`
	CategoryName string `json:"categoryname"`
	SortOrder    int    `json:"sortorder"`
	Required     bool   `json:"required"`
	Locked       bool   `json:"locked"`
	Visible      bool   `json:"visible"`
	ForceUnique  bool   `json:"forceunique"`
	Signup       bool   `json:"signup"`

	// Options holds the dropdown choices for menu fields, one per line
	// in the host's raw definition.
	Options []string `json:"options"`
}

// Role is a host role definition.
type Role struct {
	ID          int64  `json:"id"`
	ShortName   string `json:"shortname"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Archetype   string `json:"archetype"`
}

// Group is a course group a user belongs to.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is the host's course record.
type Course struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category"`
	FullName   string `json:"fullname"`
	ShortName  string `json:"shortname"`
	IDNumber   string `json:"idnumber,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Format     string `json:"format,omitempty"`
	Visible    bool   `json:"visible"`
	StartDate  int64  `json:"startdate,omitempty"`
	EndDate    int64  `json:"enddate,omitempty"`
}

// Category is a course category.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IDNumber string `json:"idnumber"`
}

// Enrolment is one user enrolment instance, as stored by the host.
type Enrolment struct {
	ID         int64 `json:"userenrolid"`
	UserID     int64 `json:"userid"`
	CourseID   int64 `json:"courseid"`
	CourseName string `json:"coursename"`

	// Method is the enrolment plugin name ("manual", "self", ...).
	Method string `json:"enrolmethod"`

	// StatusCode is the host's raw status: 0 means active, anything
	// else means suspended.
	StatusCode int `json:"-"`

	TimeStart int64 `json:"timestart"`
	TimeEnd   int64 `json:"timeend"`
}
