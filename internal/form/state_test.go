// internal/form/state_test.go
//
// Unit-tests for State mutators: derived errors, the recompute trigger set,
// phone/phoneType coupling, and option checks.

package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewStateIsInitial(t *testing.T) {
	s := New()
	if s.Values() != (Values{}) {
		t.Fatalf("initial values not zero: %+v", s.Values())
	}
	if s.HasSubmitted() {
		t.Fatal("hasSubmitted should start false")
	}
	want := []string{MsgNameRequired, MsgEmailRequired}
	if diff := cmp.Diff(want, s.Errors()); diff != "" {
		t.Fatalf("initial errors (-want +got):\n%s", diff)
	}
}

func TestErrorsAlwaysMatchValidator(t *testing.T) {
	s := New()
	steps := []func(){
		func() { s.SetName("Ana") },
		func() { s.SetEmail("ana@") },
		func() { s.SetEmail("ana@example.com") },
		func() { s.SetPhone("555-1234") },
		func() { _ = s.SetPhoneType(PhoneWork) },
		func() { s.SetBio("hello") },
		func() { s.SetPhone("") },
		func() { s.SetName("") },
	}
	for i, step := range steps {
		step()
		if diff := cmp.Diff(Validate(s.Values()), s.Errors()); diff != "" {
			t.Fatalf("step %d: errors drifted from validator (-want +got):\n%s", i, diff)
		}
	}
}

func TestUntrackedFieldsSkipRecompute(t *testing.T) {
	if FieldRole.Tracked() || FieldEmailUpdates.Tracked() {
		t.Fatal("role and emailUpdates must not be tracked")
	}
	for _, f := range []Field{FieldName, FieldEmail, FieldPhone, FieldPhoneType, FieldBio} {
		if !f.Tracked() {
			t.Fatalf("%s should be tracked", f)
		}
	}

	s := New()
	before := s.Errors()
	if err := s.SetRole(RoleInstructor); err != nil {
		t.Fatal(err)
	}
	s.SetEmailUpdates(true)
	if diff := cmp.Diff(before, s.Errors()); diff != "" {
		t.Fatalf("untracked change altered errors (-want +got):\n%s", diff)
	}
}

func TestClearingPhoneClearsType(t *testing.T) {
	s := New()
	s.SetPhone("555-1234")
	if err := s.SetPhoneType(PhoneHome); err != nil {
		t.Fatal(err)
	}
	s.SetPhone("")
	if got := s.Values().PhoneType; got != PhoneUnset {
		t.Fatalf("phone type = %q after clearing phone, want unset", got)
	}

	// Editing a non-empty phone keeps the type.
	s.SetPhone("555-1234")
	_ = s.SetPhoneType(PhoneCell)
	s.SetPhone("555-9999")
	if got := s.Values().PhoneType; got != PhoneCell {
		t.Fatalf("phone type = %q after editing phone, want Cell", got)
	}
}

func TestInvalidOptions(t *testing.T) {
	s := New()
	if err := s.SetPhoneType("Fax"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("SetPhoneType(Fax) err = %v, want ErrInvalidOption", err)
	}
	if err := s.SetRole("admin"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("SetRole(admin) err = %v, want ErrInvalidOption", err)
	}
	if err := s.SetRole(RoleUnset); err != nil {
		t.Fatalf("SetRole(unset) err = %v", err)
	}
}

func TestSetField(t *testing.T) {
	s := New()
	inputs := []struct {
		f   Field
		raw string
	}{
		{FieldName, "Ana"},
		{FieldEmail, "ana@example.com"},
		{FieldPhone, "555-1234"},
		{FieldPhoneType, "Cell"},
		{FieldRole, "student"},
		{FieldBio, "Teaches Go."},
		{FieldEmailUpdates, "on"},
	}
	for _, in := range inputs {
		if err := s.SetField(in.f, in.raw); err != nil {
			t.Fatalf("SetField(%s): %v", in.f, err)
		}
	}
	want := Values{
		Name: "Ana", Email: "ana@example.com", Phone: "555-1234",
		PhoneType: PhoneCell, Role: RoleStudent, Bio: "Teaches Go.", EmailUpdates: true,
	}
	if diff := cmp.Diff(want, s.Values()); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	if !s.Valid() {
		t.Fatalf("expected valid, got %v", s.Errors())
	}

	if err := s.SetField(FieldEmailUpdates, "false"); err != nil || s.Values().EmailUpdates {
		t.Fatalf("checkbox false: err=%v value=%v", err, s.Values().EmailUpdates)
	}
	if err := s.SetField("age", "3"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field err = %v", err)
	}
}

func TestErrorsReturnsCopy(t *testing.T) {
	s := New()
	errs := s.Errors()
	errs[0] = "tampered"
	if s.Errors()[0] != MsgNameRequired {
		t.Fatal("Errors exposed internal slice")
	}
}

func TestVisibleErrors(t *testing.T) {
	s := New()
	if got := s.VisibleErrors(); got != nil {
		t.Fatalf("errors visible before submit: %v", got)
	}

	if _, err := s.Submit(fixedNow); !IsBlocked(err) {
		t.Fatalf("expected blocked submit, got %v", err)
	}
	want := []string{MsgNameRequired, MsgEmailRequired}
	if diff := cmp.Diff(want, s.VisibleErrors()); diff != "" {
		t.Fatalf("visible after submit (-want +got):\n%s", diff)
	}

	// Visible list tracks later edits.
	s.SetName("Ana")
	if diff := cmp.Diff([]string{MsgEmailRequired}, s.VisibleErrors()); diff != "" {
		t.Fatalf("visible after edit (-want +got):\n%s", diff)
	}

	s.SetEmail("ana@example.com")
	if got := s.VisibleErrors(); got != nil {
		t.Fatalf("block should hide once valid, got %v", got)
	}
}

func TestUniqueMessages(t *testing.T) {
	got := uniqueMessages([]string{"a", "b", "a", "c", "b"})
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestApplyAllOrNothing(t *testing.T) {
	s := New()
	s.SetName("Keep")

	err := s.Apply(map[Field]string{
		FieldName:      "Ada",
		FieldEmail:     "ada@example.com",
		FieldPhone:     "555-1234",
		FieldPhoneType: "Bogus",
	})
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err = %v, want ErrInvalidOption", err)
	}
	if diff := cmp.Diff(Values{Name: "Keep"}, s.Values()); diff != "" {
		t.Fatalf("state changed on refused apply (-want +got):\n%s", diff)
	}

	if err := s.Apply(map[Field]string{"nickname": "x"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}

	err = s.Apply(map[Field]string{
		FieldName:         "Ada",
		FieldEmail:        "ada@example.com",
		FieldPhone:        "555-1234",
		FieldPhoneType:    "Home",
		FieldRole:         "student",
		FieldEmailUpdates: "on",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := Values{
		Name: "Ada", Email: "ada@example.com", Phone: "555-1234",
		PhoneType: PhoneHome, Role: RoleStudent, EmailUpdates: true,
	}
	if diff := cmp.Diff(want, s.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !s.Valid() {
		t.Fatalf("errors = %v", s.Errors())
	}
}
