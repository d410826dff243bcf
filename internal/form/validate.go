// internal/form/validate.go
//
// Contact form – validator.
//
// Context
//   Validate is a pure function of the field values.  Six rules run in a
//   fixed order and each one appends independently; nothing short-circuits.
//   Callers rely on the order, so templates and tests can compare the list
//   as-is.
//
//   The shape checks are deliberately permissive.  The email pattern is
//   RFC-ish, not RFC 5322.  The phone pattern accepts most human-typed
//   formats and rejects letters or stray symbols.
//
//------------------------------------------------------------------------------

package form

import (
	"regexp"
	"unicode/utf8"
)

// BioMaxLen is the longest valid bio, in characters.
const BioMaxLen = 280

// User-facing messages, in rule order.
const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Enter a valid email"
	MsgPhoneInvalid  = "Enter a valid phone number, such as 888-888-8888"
	MsgPhoneType     = "Select phone type"
	MsgBioTooLong    = "Bio must be less than 280 characters"
)

// phoneSpace is the browser notion of whitespace.  RE2's \s is ASCII only,
// so no-break and other Unicode spaces are listed explicitly.
const phoneSpace = `\s\v\p{Zs}\x{2028}\x{2029}\x{feff}`

var (
	mailFormat  = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	phoneFormat = regexp.MustCompile(`^[+]*[(]{0,1}[0-9]{1,3}[)]{0,1}[-` + phoneSpace + `\./0-9]*$`)
)

// Validate returns the ordered error messages for v.  An empty (nil) result
// means the form is valid.
func Validate(v Values) []string {
	var errs []string

	if v.Name == "" {
		errs = append(errs, MsgNameRequired)
	}
	if v.Email == "" {
		errs = append(errs, MsgEmailRequired)
	}
	if v.Email != "" && !ValidEmail(v.Email) {
		errs = append(errs, MsgEmailInvalid)
	}
	if v.Phone != "" && !ValidPhone(v.Phone) {
		errs = append(errs, MsgPhoneInvalid)
	}
	if v.Phone != "" && v.PhoneType == PhoneUnset {
		errs = append(errs, MsgPhoneType)
	}
	if utf8.RuneCountInString(v.Bio) > BioMaxLen {
		errs = append(errs, MsgBioTooLong)
	}

	return errs
}

// ValidEmail reports whether s has the accepted email shape.
func ValidEmail(s string) bool { return mailFormat.MatchString(s) }

// ValidPhone reports whether s has the accepted phone shape.
func ValidPhone(s string) bool { return phoneFormat.MatchString(s) }
