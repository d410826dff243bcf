// components/contact/contact.go
//
// Contact Component – serves the contact form over HTTP and websocket.
//
// Context
//   One form.State per visitor, held in a session.Store keyed by the
//   session cookie.  Every route resolves the visitor, then touches the
//   State only inside Store.With so a change and its validator recompute
//   are observed together.
//
// Routes
//   GET  /               full page
//   POST /               no-JS submit (post/redirect/get)
//   POST /field          one field change → error-block fragment
//   GET  /ws             live channel (field changes and submit)
//   GET  /api/state      JSON view of the visitor's State
//   GET  /static/live.js progressive-enhancement script
//
//------------------------------------------------------------------------------

package contact

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/component"
	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/session"
)

//go:embed assets
var assets embed.FS

var page = template.Must(template.ParseFS(assets, "assets/page.html"))

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Options wires a Comp by hand.  Nil fields get working defaults.
type Options struct {
	Definition *form.Definition
	Store      *session.Store
	CSRF       *form.CSRF
	Sink       form.Sink
	Log        *zap.SugaredLogger
	Now        func() time.Time
}

// Comp implements component.Component.
type Comp struct {
	def      *form.Definition
	store    *session.Store
	csrf     *form.CSRF
	sink     form.Sink
	log      *zap.SugaredLogger
	now      func() time.Time
	upgrader websocket.Upgrader
}

// New builds a ready Comp.  It is used by tests and by Init.
func New(opts Options) (*Comp, error) {
	c := &Comp{}
	if err := c.wire(opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comp) wire(opts Options) error {
	if opts.Log == nil {
		opts.Log = zap.S()
	}
	if opts.Definition == nil {
		opts.Definition = form.DefaultDefinition()
	}
	if opts.Store == nil {
		opts.Store = session.New(session.Options{}, opts.Log)
	}
	if opts.CSRF == nil {
		signer, _, err := form.NewCSRF("")
		if err != nil {
			return err
		}
		opts.CSRF = signer
	}
	if opts.Sink == nil {
		opts.Sink = form.LogSink{Log: opts.Log}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c.def = opts.Definition
	c.store = opts.Store
	c.csrf = opts.CSRF
	c.sink = opts.Sink
	c.log = opts.Log
	c.now = opts.Now
	c.upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	return nil
}

func (c *Comp) Name() string { return "contact" }

// Init wires the component from process configuration.
func (c *Comp) Init(env component.Env) error {
	cfg := env.Config
	log := env.Log

	def := form.DefaultDefinition()
	if cfg.Form.Definition != "" {
		d, err := form.LoadDefinition(cfg.Form.Definition)
		if err != nil {
			return fmt.Errorf("contact: %w", err)
		}
		def = d
	}

	signer, ephemeral, err := form.NewCSRF(cfg.Security.CSRFKey)
	if err != nil {
		return fmt.Errorf("contact: %w", err)
	}
	if ephemeral {
		log.Warnw("csrf key not configured, using a per-process key")
	}

	store := session.New(session.Options{
		IdleTTL:       cfg.Session.IdleTTL,
		MaxEntries:    cfg.Session.MaxEntries,
		EvictInterval: cfg.Session.EvictInterval,
	}, log)

	return c.wire(Options{
		Definition: def,
		Store:      store,
		CSRF:       signer,
		Sink:       form.BuildSink(def, log, env.Stdout),
		Log:        log,
	})
}

// Close stops the session evictor.
func (c *Comp) Close() error {
	if c.store != nil {
		c.store.Close()
	}
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()

	// HTML page and no-JS submit
	r.Get("/", c.getForm)
	r.Post("/", c.postForm)

	// Live updates
	r.Post("/field", c.postField)
	r.Get("/ws", c.serveWS)

	// JSON endpoint
	r.Get("/api/state", c.getState)

	static, _ := fs.Sub(assets, "assets")
	r.Handle("/static/live.js", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}
