// components/contact/handlers.go
//
// HTTP handlers for the contact form.
//
// Status codes
//   200  page or fragment rendered
//   303  accepted submit, redirect to /?sent=1
//   400  unknown field or a select/radio value outside its options
//   403  missing or invalid CSRF token
//   422  submit refused by the validator; page re-rendered with the notice
//
//------------------------------------------------------------------------------

package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/head"
	"github.com/yanizio/contactform/internal/metrics"
	"github.com/yanizio/contactform/internal/session"
)

const (
	csrfField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
	maxBody    = 64 << 10
)

// pageData feeds assets/page.html.
type pageData struct {
	Head *head.Builder
	Form template.HTML
}

/*──────────────────────────── GET / ───────────────────────────────────────*/

func (c *Comp) getForm(w http.ResponseWriter, r *http.Request) {
	id := session.ID(w, r)
	opts := form.RenderOptions{Sent: r.URL.Query().Get("sent") == "1"}
	c.renderPage(w, id, http.StatusOK, opts)
}

/*──────────────────────────── POST / ──────────────────────────────────────*/

func (c *Comp) postForm(w http.ResponseWriter, r *http.Request) {
	if !c.parseAndVerify(w, r) {
		return
	}
	id := session.ID(w, r)

	posted := make(map[form.Field]string, len(form.Fields))
	for _, f := range form.Fields {
		posted[f] = r.PostForm.Get(string(f))
	}

	var applyErr error
	c.store.With(id, func(st *form.State) { applyErr = st.Apply(posted) })
	if applyErr != nil {
		http.Error(w, applyErr.Error(), http.StatusBadRequest)
		return
	}

	res := c.submit(r.Context(), id)
	if !res.Accepted {
		c.renderPage(w, id, http.StatusUnprocessableEntity, form.RenderOptions{Notice: form.NoticeBlocked})
		return
	}
	http.Redirect(w, r, "/?sent=1", http.StatusSeeOther)
}

/*──────────────────────────── POST /field ─────────────────────────────────*/

func (c *Comp) postField(w http.ResponseWriter, r *http.Request) {
	if !c.parseAndVerify(w, r) {
		return
	}
	id := session.ID(w, r)

	f := form.Field(r.PostForm.Get("field"))
	res := c.change(id, f, r.PostForm.Get("value"))
	if res.Error != "" {
		http.Error(w, res.Error, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(res.HTML))
}

/*──────────────────────────── GET /api/state ──────────────────────────────*/

// stateView is the JSON shape of /api/state.
type stateView struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	PhoneType    string   `json:"phoneType"`
	Role         string   `json:"role"`
	Bio          string   `json:"bio"`
	EmailUpdates bool     `json:"emailUpdates"`
	HasSubmitted bool     `json:"hasSubmitted"`
	Errors       []string `json:"errors"`
	Visible      []string `json:"visible"`
}

func (c *Comp) getState(w http.ResponseWriter, r *http.Request) {
	id := session.ID(w, r)

	var view stateView
	c.store.With(id, func(st *form.State) {
		v := st.Values()
		view = stateView{
			Name:         v.Name,
			Email:        v.Email,
			Phone:        v.Phone,
			PhoneType:    string(v.PhoneType),
			Role:         string(v.Role),
			Bio:          v.Bio,
			EmailUpdates: v.EmailUpdates,
			HasSubmitted: st.HasSubmitted(),
			Errors:       st.Errors(),
			Visible:      nonNil(st.VisibleErrors()),
		}
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

/*──────────────────────────── shared ──────────────────────────────────────*/

// result is the outcome of one change or submit.  The websocket path sends
// it as JSON unchanged.
type result struct {
	Errors       []string `json:"errors"`
	Visible      []string `json:"visible"`
	HasSubmitted bool     `json:"hasSubmitted"`
	Notice       string   `json:"notice,omitempty"`
	Accepted     bool     `json:"accepted"`
	HTML         string   `json:"html"`
	Error        string   `json:"error,omitempty"`
}

// snapshotOf builds a result from st.  Callers hold the entry lock.
func (c *Comp) snapshotOf(st *form.State, notice string) result {
	return result{
		Errors:       st.Errors(),
		Visible:      nonNil(st.VisibleErrors()),
		HasSubmitted: st.HasSubmitted(),
		Notice:       notice,
		HTML:         string(form.RenderErrors(c.def, st, notice)),
	}
}

// change applies one raw field value.
func (c *Comp) change(id string, f form.Field, raw string) result {
	var res result
	c.store.With(id, func(st *form.State) {
		err := st.SetField(f, raw)
		res = c.snapshotOf(st, "")
		if err != nil {
			res.Error = err.Error()
		}
	})
	if res.Error == "" {
		metrics.FieldChangesTotal.WithLabelValues(string(f)).Inc()
	}
	return res
}

// submit runs the gate and, on acceptance, hands the snapshot to the sink.
func (c *Comp) submit(ctx context.Context, id string) result {
	var (
		res  result
		snap form.Snapshot
		err  error
	)
	c.store.With(id, func(st *form.State) {
		snap, err = st.Submit(c.now())
		notice := ""
		if err != nil {
			notice = form.NoticeBlocked
		}
		res = c.snapshotOf(st, notice)
	})

	var blocked *form.BlockedError
	if errors.As(err, &blocked) {
		metrics.SubmissionsTotal.WithLabelValues("blocked").Inc()
		c.log.Infow("contact form blocked", "errors", len(blocked.Errors))
		return res
	}

	res.Accepted = true
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	if err := c.sink.Emit(ctx, snap); err != nil {
		c.log.Errorw("submission sink failed", "err", err)
	}
	return res
}

// parseAndVerify parses the body and checks the CSRF token.  It writes the
// error response and returns false on failure.
func (c *Comp) parseAndVerify(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return false
	}
	tok := r.PostForm.Get(csrfField)
	if tok == "" {
		tok = r.Header.Get(csrfHeader)
	}
	if !c.csrf.Verify(tok) {
		c.log.Debugw("csrf check failed", "path", r.URL.Path)
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return false
	}
	return true
}

// renderPage writes the full page for the visitor's State.
func (c *Comp) renderPage(w http.ResponseWriter, id string, status int, opts form.RenderOptions) {
	tok, err := c.csrf.Generate()
	if err != nil {
		c.log.Errorw("csrf token generation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	opts.Action = "/"
	opts.LiveURL = "/ws"
	opts.CSRFToken = tok

	var (
		markup    template.HTML
		renderErr error
	)
	c.store.With(id, func(st *form.State) {
		markup, renderErr = form.RenderForm(c.def, st, opts)
	})
	if renderErr != nil {
		c.log.Errorw("render error", "err", renderErr)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	hb := head.New()
	hb.SetTitle(c.def.Title)
	hb.ScriptSrc("/static/live.js")

	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{Head: hb, Form: markup}); err != nil {
		c.log.Errorw("render error", "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
