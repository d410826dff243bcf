// internal/prompt/runner.go
//
// Terminal form filler.
//
// Workflow
//   1. Walk the definition's fields in render order and ask for each one,
//      offering the current value as the default.  A field whose
//      enabled_by field is empty is skipped, the way the page disables it.
//   2. Submit.  A refused submit prints the notice and the visible errors,
//      then asks whether to try again; every field keeps its value.
//   3. An accepted Snapshot goes to the Sink and is returned.
//
//------------------------------------------------------------------------------

package prompt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/form"
)

const noneOption = "(none)"

// Runner drives one form through a PromptDriver.
type Runner struct {
	Def    *form.Definition
	Driver PromptDriver
	Sink   form.Sink
	Log    *zap.SugaredLogger
	Now    func() time.Time
}

// Run loops until a submit is accepted or the user aborts.
func (r *Runner) Run(ctx context.Context) (form.Snapshot, error) {
	def := r.Def
	if def == nil {
		def = form.DefaultDefinition()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	log := r.Log
	if log == nil {
		log = zap.S()
	}

	st := form.New()
	if def.Title != "" {
		if err := r.Driver.Info(ctx, def.Title); err != nil {
			return form.Snapshot{}, err
		}
	}

	for {
		for i := range def.Fields {
			if err := r.ask(ctx, st, &def.Fields[i]); err != nil {
				return form.Snapshot{}, err
			}
		}

		snap, err := st.Submit(now())
		var blocked *form.BlockedError
		if errors.As(err, &blocked) {
			log.Infow("contact form blocked", "errors", len(blocked.Errors), "surface", "terminal")
			if err := r.showErrors(ctx, def, st); err != nil {
				return form.Snapshot{}, err
			}
			again, err := r.Driver.Confirm(ctx, ConfirmConfig{Message: "Edit and try again?", Default: true})
			if err != nil {
				return form.Snapshot{}, err
			}
			if !again {
				return form.Snapshot{}, ErrAborted
			}
			continue
		}
		if err != nil {
			return form.Snapshot{}, err
		}

		if r.Sink != nil {
			if err := r.Sink.Emit(ctx, snap); err != nil {
				log.Errorw("submission sink failed", "err", err)
			}
		}
		if err := r.Driver.Info(ctx, form.SentMessage); err != nil {
			return snap, err
		}
		return snap, nil
	}
}

func (r *Runner) showErrors(ctx context.Context, def *form.Definition, st *form.State) error {
	lines := []string{form.NoticeBlocked, def.ErrorsHeading}
	for _, m := range st.VisibleErrors() {
		lines = append(lines, "  • "+m)
	}
	for _, l := range lines {
		if err := r.Driver.Info(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// ask prompts for one field and applies the answer.
func (r *Runner) ask(ctx context.Context, st *form.State, fd *form.FieldDef) error {
	v := st.Values()
	if fd.EnabledBy != "" && current(fd.EnabledBy, v) == "" {
		return nil
	}

	var raw string
	switch fd.Type {
	case "text", "email":
		ans, err := r.Driver.Input(ctx, InputConfig{
			Message: fd.Label,
			Default: current(fd.Name, v),
			Help:    fd.Placeholder,
		})
		if err != nil {
			return err
		}
		raw = ans

	case "textarea":
		ans, err := r.Driver.TextArea(ctx, TextAreaConfig{Message: fd.Label, Default: current(fd.Name, v)})
		if err != nil {
			return err
		}
		raw = ans

	case "select", "radio":
		first := fd.Placeholder
		if first == "" {
			first = noneOption
		}
		opts := []string{first}
		def := 0
		for i, o := range fd.Options {
			opts = append(opts, o.Text())
			if o.Value == current(fd.Name, v) {
				def = i + 1
			}
		}
		msg := fd.Label
		if msg == "" {
			msg = fd.Placeholder
		}
		idx, err := r.Driver.Select(ctx, SelectConfig{Message: msg, Options: opts, DefaultIndex: def})
		if err != nil {
			return err
		}
		if idx > 0 && idx <= len(fd.Options) {
			raw = fd.Options[idx-1].Value
		}

	case "checkbox":
		on, err := r.Driver.Confirm(ctx, ConfirmConfig{Message: fd.Label, Default: v.EmailUpdates})
		if err != nil {
			return err
		}
		if on {
			raw = "on"
		}

	default:
		return fmt.Errorf("field %s: unsupported type %q", fd.Name, fd.Type)
	}

	return st.SetField(fd.Name, raw)
}

// current returns the raw string form of a field value.
func current(f form.Field, v form.Values) string {
	switch f {
	case form.FieldName:
		return v.Name
	case form.FieldEmail:
		return v.Email
	case form.FieldPhone:
		return v.Phone
	case form.FieldPhoneType:
		return string(v.PhoneType)
	case form.FieldRole:
		return string(v.Role)
	case form.FieldBio:
		return v.Bio
	case form.FieldEmailUpdates:
		if v.EmailUpdates {
			return "on"
		}
	}
	return ""
}
