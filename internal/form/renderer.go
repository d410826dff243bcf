// internal/form/renderer.go
//
// Contact form – HTML renderer.
//
// Context
//   RenderForm turns a Definition plus the visitor's State into plain HTML.
//   Values are written back into the inputs, the phone-type select is
//   disabled while the phone is empty, and the error block appears only when
//   State.VisibleErrors is non-empty.  A CSRF token supplied by the caller is
//   embedded as a hidden input.
//
// Style
//   Output HTML carries no framework classes.  Each input gets id="{name}" and
//   is wrapped in a bare <div> so themes can style by element or id.  The
//   error block lives in <div id="form-errors"> so a live update can swap it
//   without touching the inputs.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	Action    string // form action URL; empty posts to the current URL
	LiveURL   string // per-field endpoint announced in data-live, optional
	CSRFToken string // hidden csrf_token value, optional
	Notice    string // inline notice after a refused submit
	Sent      bool   // show the accepted-submission flash
}

// SentMessage is shown once after an accepted submit.
const SentMessage = "Thanks!  Your message has been sent."

// RenderForm returns the full markup for the form.
func RenderForm(def *Definition, s *State, opts RenderOptions) (template.HTML, error) {
	if def == nil {
		return "", fmt.Errorf("RenderForm: nil definition")
	}

	var buf bytes.Buffer
	buf.WriteString(`<div id="form-container">` + "\n")
	if def.Title != "" {
		buf.WriteString(`<h2>` + html.EscapeString(def.Title) + `</h2>` + "\n")
	}
	if opts.Sent {
		buf.WriteString(`<p class="sent" role="status">` + html.EscapeString(SentMessage) + `</p>` + "\n")
	}
	buf.WriteString(`<div id="form-errors" aria-live="polite">`)
	writeErrors(&buf, def, s, opts.Notice)
	buf.WriteString(`</div>` + "\n")

	buf.WriteString(`<form method="post"`)
	if opts.Action != "" {
		buf.WriteString(` action="` + html.EscapeString(opts.Action) + `"`)
	}
	if opts.LiveURL != "" {
		buf.WriteString(` data-live="` + html.EscapeString(opts.LiveURL) + `"`)
	}
	buf.WriteString(` novalidate>` + "\n")

	v := s.Values()
	for i := range def.Fields {
		if err := writeField(&buf, &def.Fields[i], v); err != nil {
			return "", err
		}
	}

	if opts.CSRFToken != "" {
		buf.WriteString(`<input type="hidden" name="csrf_token" value="` + html.EscapeString(opts.CSRFToken) + `">` + "\n")
	}
	buf.WriteString(`<button class="submit-button">` + html.EscapeString(def.SubmitLabel) + `</button>` + "\n")
	buf.WriteString(`</form>` + "\n")
	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// RenderErrors returns only the inner markup of the error block, for live
// updates that replace #form-errors.
func RenderErrors(def *Definition, s *State, notice string) template.HTML {
	var buf bytes.Buffer
	writeErrors(&buf, def, s, notice)
	return template.HTML(buf.String())
}

func writeErrors(buf *bytes.Buffer, def *Definition, s *State, notice string) {
	if notice != "" {
		buf.WriteString(`<p class="notice" role="alert">` + html.EscapeString(notice) + `</p>`)
	}
	msgs := s.VisibleErrors()
	if len(msgs) == 0 {
		return
	}
	buf.WriteString(`<div class="errors">`)
	buf.WriteString(html.EscapeString(def.ErrorsHeading))
	buf.WriteString(`<ul>`)
	for _, m := range msgs {
		buf.WriteString(`<li>` + html.EscapeString(m) + `</li>`)
	}
	buf.WriteString(`</ul></div>`)
}

// writeField emits HTML for one field using the current values.
func writeField(buf *bytes.Buffer, f *FieldDef, v Values) error {
	name := html.EscapeString(string(f.Name))

	switch f.Type {
	case "text", "email":
		buf.WriteString(`<div>` + "\n")
		writeLabel(buf, name, f.Label)
		buf.WriteString(`<input id="` + name + `" name="` + name + `" type="` + f.Type + `"`)
		buf.WriteString(` value="` + html.EscapeString(stringValue(f.Name, v)) + `"`)
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		buf.WriteString(` class="` + classes("text-input", f.Class) + `">` + "\n")
		buf.WriteString(`</div>` + "\n")

	case "select":
		cur := stringValue(f.Name, v)
		buf.WriteString(`<div>` + "\n")
		writeLabel(buf, name, f.Label)
		buf.WriteString(`<select id="` + name + `" name="` + name + `" class="` + classes("phone-type", f.Class) + `"`)
		if f.EnabledBy != "" && stringValue(f.EnabledBy, v) == "" {
			buf.WriteString(` disabled`)
		}
		buf.WriteString(`>` + "\n")
		buf.WriteString(`<option value=""` + selected(cur == "") + `>` + html.EscapeString(f.Placeholder) + `</option>` + "\n")
		for _, o := range f.Options {
			buf.WriteString(`<option value="` + html.EscapeString(o.Value) + `"` + selected(cur == o.Value) + `>` +
				html.EscapeString(o.Text()) + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")
		buf.WriteString(`</div>` + "\n")

	case "radio":
		cur := stringValue(f.Name, v)
		buf.WriteString(`<fieldset>` + "\n")
		if f.Label != "" {
			buf.WriteString(`<legend>` + html.EscapeString(f.Label) + `</legend>` + "\n")
		}
		for _, o := range f.Options {
			id := html.EscapeString(o.Value)
			buf.WriteString(`<div>` + "\n")
			buf.WriteString(`<input type="radio" id="` + id + `" name="` + name + `" value="` + id + `"`)
			if cur == o.Value {
				buf.WriteString(` checked`)
			}
			buf.WriteString(`>` + "\n")
			writeLabel(buf, id, o.Text())
			buf.WriteString(`</div>` + "\n")
		}
		buf.WriteString(`</fieldset>` + "\n")

	case "textarea":
		buf.WriteString(`<div>` + "\n")
		writeLabel(buf, name, f.Label)
		buf.WriteString(`<textarea id="` + name + `" name="` + name + `"`)
		if f.Rows > 0 {
			buf.WriteString(` rows="` + strconv.Itoa(f.Rows) + `"`)
		}
		if f.Cols > 0 {
			buf.WriteString(` cols="` + strconv.Itoa(f.Cols) + `"`)
		}
		if f.Class != "" {
			buf.WriteString(` class="` + html.EscapeString(f.Class) + `"`)
		}
		buf.WriteString(`>` + html.EscapeString(stringValue(f.Name, v)) + `</textarea>` + "\n")
		buf.WriteString(`</div>` + "\n")

	case "checkbox":
		buf.WriteString(`<div>` + "\n")
		buf.WriteString(`<input type="checkbox" id="` + name + `" name="` + name + `" value="on"`)
		if f.Name == FieldEmailUpdates && v.EmailUpdates {
			buf.WriteString(` checked`)
		}
		buf.WriteString(`>` + "\n")
		writeLabel(buf, name, f.Label)
		buf.WriteString(`</div>` + "\n")

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}
	return nil
}

func writeLabel(buf *bytes.Buffer, forID, text string) {
	if text == "" {
		return
	}
	buf.WriteString(`<label for="` + forID + `">` + html.EscapeString(text) + `</label>` + "\n")
}

// stringValue returns the textual value of f, "" for the checkbox.
func stringValue(f Field, v Values) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldPhone:
		return v.Phone
	case FieldPhoneType:
		return string(v.PhoneType)
	case FieldRole:
		return string(v.Role)
	case FieldBio:
		return v.Bio
	}
	return ""
}

func selected(on bool) string {
	if on {
		return ` selected`
	}
	return ""
}

func classes(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + " " + html.EscapeString(extra)
}
