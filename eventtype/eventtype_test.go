package eventtype_test

import (
	"testing"

	"github.com/lmsflow/lmsflow/eventtype"
)

func TestParseAcceptsEveryListedType(t *testing.T) {
	for _, want := range eventtype.All() {
		got, ok := eventtype.Parse(want.String())
		if !ok {
			t.Fatalf("Parse(%q) rejected a listed type", want)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %q", want, got)
		}
	}
}

func TestParseRejectsUnknownType(t *testing.T) {
	if _, ok := eventtype.Parse("bogus_event"); ok {
		t.Fatal("Parse accepted bogus_event")
	}
	if _, ok := eventtype.Parse(""); ok {
		t.Fatal("Parse accepted empty string")
	}
	// Exact match only: no prefix or case tolerance.
	if _, ok := eventtype.Parse("User_Created"); ok {
		t.Fatal("Parse accepted wrong-case type")
	}
	if _, ok := eventtype.Parse("user_created_extra"); ok {
		t.Fatal("Parse accepted prefixed type")
	}
}

func TestFromSourceRoundTrip(t *testing.T) {
	for _, typ := range eventtype.All() {
		got, ok := eventtype.FromSource(typ.Source())
		if !ok {
			t.Fatalf("FromSource(%q) not found", typ.Source())
		}
		if got != typ {
			t.Fatalf("FromSource(%q) = %q, want %q", typ.Source(), got, typ)
		}
	}

	if _, ok := eventtype.FromSource(`\core\event\course_deleted`); ok {
		t.Fatal("FromSource accepted an unobserved platform event")
	}
}

func TestSubjectResolution(t *testing.T) {
	objectIDTypes := []eventtype.Type{
		eventtype.UserCreated,
		eventtype.UserUpdated,
		eventtype.UserLoggedIn,
		eventtype.UserLoggedOut,
		eventtype.UserLoginFailed,
	}
	for _, typ := range objectIDTypes {
		if typ.Subject() != eventtype.SubjectObjectID {
			t.Errorf("%s: subject should come from object id", typ)
		}
	}

	relatedTypes := []eventtype.Type{
		eventtype.UserGraded,
		eventtype.UserEnrolmentCreated,
		eventtype.UserEnrolmentUpdated,
		eventtype.UserEnrolmentDeleted,
		eventtype.UserCourseCompleted,
		eventtype.UserCourseModuleCompleted,
	}
	for _, typ := range relatedTypes {
		if typ.Subject() != eventtype.SubjectRelatedUserID {
			t.Errorf("%s: subject should come from related user id", typ)
		}
	}

	if eventtype.CourseCreated.Subject() != eventtype.SubjectNone {
		t.Error("course_created should have no user subject")
	}
}

func TestLoginFailedSkipsSubjectCheck(t *testing.T) {
	if eventtype.UserLoginFailed.ChecksSubject() {
		t.Fatal("user_login_failed must not require a valid account")
	}
	if !eventtype.UserCreated.ChecksSubject() {
		t.Fatal("user_created must require a valid account")
	}
}

func TestCourseFilterableSet(t *testing.T) {
	filterable := map[eventtype.Type]bool{
		eventtype.UserGraded:                true,
		eventtype.UserEnrolmentCreated:      true,
		eventtype.UserEnrolmentUpdated:      true,
		eventtype.UserEnrolmentDeleted:      true,
		eventtype.UserCourseCompleted:       true,
		eventtype.UserCourseModuleCompleted: true,
	}
	for _, typ := range eventtype.All() {
		if typ.CourseFilterable() != filterable[typ] {
			t.Errorf("%s: CourseFilterable = %v, want %v", typ, typ.CourseFilterable(), filterable[typ])
		}
	}
}

func TestSourcesMatchesAll(t *testing.T) {
	sources := eventtype.Sources()
	all := eventtype.All()
	if len(sources) != len(all) {
		t.Fatalf("Sources() returned %d names, want %d", len(sources), len(all))
	}
	for i, typ := range all {
		if sources[i] != typ.Source() {
			t.Fatalf("Sources()[%d] = %q, want %q", i, sources[i], typ.Source())
		}
	}
}
