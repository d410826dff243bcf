// internal/form/state.go
//
// Contact form – field state.
//
// Context
//   State holds the current value of every editable field plus the
//   hasSubmitted flag.  The validation error list is derived: every mutator
//   that touches a tracked field (name, email, phone, phoneType, bio) re-runs
//   Validate before returning, so Errors() always equals Validate(Values()).
//   Role and emailUpdates are collected but never trigger a recompute.
//
//   State is not safe for concurrent use.  The session store serialises
//   access per visitor.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"strings"
)

// PhoneType is the kind of number entered in the phone field.
type PhoneType string

const (
	PhoneUnset PhoneType = ""
	PhoneHome  PhoneType = "Home"
	PhoneCell  PhoneType = "Cell"
	PhoneWork  PhoneType = "Work"
)

// PhoneTypes lists the selectable phone types in display order.
var PhoneTypes = []PhoneType{PhoneHome, PhoneCell, PhoneWork}

// Role is the visitor's self-declared role.
type Role string

const (
	RoleUnset      Role = ""
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Roles lists the selectable roles in display order.
var Roles = []Role{RoleInstructor, RoleStudent}

// Field names an editable input.  The string value doubles as the HTML name
// attribute and the websocket message key.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldPhoneType    Field = "phoneType"
	FieldRole         Field = "role"
	FieldBio          Field = "bio"
	FieldEmailUpdates Field = "emailUpdates"
)

// Fields lists every editable field in render order.
var Fields = []Field{
	FieldName, FieldEmail, FieldPhone, FieldPhoneType,
	FieldRole, FieldBio, FieldEmailUpdates,
}

// Tracked reports whether a change to f re-runs the validator.
func (f Field) Tracked() bool {
	switch f {
	case FieldName, FieldEmail, FieldPhone, FieldPhoneType, FieldBio:
		return true
	}
	return false
}

var (
	// ErrUnknownField is returned by SetField for names outside Fields.
	ErrUnknownField = errors.New("unknown form field")
	// ErrInvalidOption is returned when a select or radio value is not one
	// of the offered options.
	ErrInvalidOption = errors.New("invalid option")
)

// Values is a plain copy of every field value.
type Values struct {
	Name         string
	Email        string
	Phone        string
	PhoneType    PhoneType
	Role         Role
	Bio          string
	EmailUpdates bool
}

// State is the mutable FormState of one form instance.
type State struct {
	v            Values
	errs         []string
	hasSubmitted bool
}

// New returns a State with every field empty, unset, or false.
func New() *State {
	s := &State{}
	s.recompute()
	return s
}

// Values returns a copy of the current field values.
func (s *State) Values() Values { return s.v }

// Errors returns a copy of the derived validation error list.
func (s *State) Errors() []string {
	out := make([]string, len(s.errs))
	copy(out, s.errs)
	return out
}

// Valid reports whether the current values pass every rule.
func (s *State) Valid() bool { return len(s.errs) == 0 }

// HasSubmitted reports whether a submit was attempted since the last reset.
func (s *State) HasSubmitted() bool { return s.hasSubmitted }

// SetName updates the name field.
func (s *State) SetName(v string) {
	s.v.Name = v
	s.recompute()
}

// SetEmail updates the email field.
func (s *State) SetEmail(v string) {
	s.v.Email = v
	s.recompute()
}

// SetPhone updates the phone field.  Clearing the phone also clears the
// phone type.
func (s *State) SetPhone(v string) {
	s.v.Phone = v
	if v == "" {
		s.v.PhoneType = PhoneUnset
	}
	s.recompute()
}

// SetPhoneType updates the phone type.  Only PhoneUnset and PhoneTypes are
// accepted.
func (s *State) SetPhoneType(t PhoneType) error {
	if !validPhoneType(t) {
		return fmt.Errorf("phone type %q: %w", t, ErrInvalidOption)
	}
	s.v.PhoneType = t
	s.recompute()
	return nil
}

// SetRole updates the role.  Role is not validated, so no recompute happens.
func (s *State) SetRole(r Role) error {
	if !validRole(r) {
		return fmt.Errorf("role %q: %w", r, ErrInvalidOption)
	}
	s.v.Role = r
	return nil
}

// SetBio updates the bio.  Text longer than BioMaxLen is kept as typed.
func (s *State) SetBio(v string) {
	s.v.Bio = v
	s.recompute()
}

// SetEmailUpdates toggles the email-updates checkbox.
func (s *State) SetEmailUpdates(on bool) { s.v.EmailUpdates = on }

// SetField applies a raw string value to the named field, the way an HTML
// form or websocket message delivers it.
func (s *State) SetField(f Field, raw string) error {
	switch f {
	case FieldName:
		s.SetName(raw)
	case FieldEmail:
		s.SetEmail(raw)
	case FieldPhone:
		s.SetPhone(raw)
	case FieldPhoneType:
		return s.SetPhoneType(PhoneType(raw))
	case FieldRole:
		return s.SetRole(Role(raw))
	case FieldBio:
		s.SetBio(raw)
	case FieldEmailUpdates:
		s.SetEmailUpdates(parseCheckbox(raw))
	default:
		return fmt.Errorf("%q: %w", string(f), ErrUnknownField)
	}
	return nil
}

// Apply sets several fields at once, in Fields order, the way a full form
// post delivers them.  Every value is checked before any is applied, so on
// error the State is unchanged.
func (s *State) Apply(raw map[Field]string) error {
	for f, v := range raw {
		if err := checkRaw(f, v); err != nil {
			return err
		}
	}
	for _, f := range Fields {
		if v, ok := raw[f]; ok {
			_ = s.SetField(f, v)
		}
	}
	return nil
}

// checkRaw reports whether SetField(f, raw) would fail.
func checkRaw(f Field, raw string) error {
	switch f {
	case FieldName, FieldEmail, FieldPhone, FieldBio, FieldEmailUpdates:
		return nil
	case FieldPhoneType:
		if !validPhoneType(PhoneType(raw)) {
			return fmt.Errorf("phone type %q: %w", raw, ErrInvalidOption)
		}
		return nil
	case FieldRole:
		if !validRole(Role(raw)) {
			return fmt.Errorf("role %q: %w", raw, ErrInvalidOption)
		}
		return nil
	}
	return fmt.Errorf("%q: %w", string(f), ErrUnknownField)
}

// Reset returns every field and hasSubmitted to the initial state.
func (s *State) Reset() {
	s.v = Values{}
	s.hasSubmitted = false
	s.recompute()
}

func (s *State) recompute() { s.errs = Validate(s.v) }

func validPhoneType(t PhoneType) bool {
	if t == PhoneUnset {
		return true
	}
	for _, o := range PhoneTypes {
		if o == t {
			return true
		}
	}
	return false
}

func validRole(r Role) bool {
	if r == RoleUnset {
		return true
	}
	for _, o := range Roles {
		if o == r {
			return true
		}
	}
	return false
}

// parseCheckbox maps browser and JSON encodings of a checked box to true.
func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
