// internal/config/model.go
//
// Typed configuration model for the contact form service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four layers:
//
//   • compiled-in defaults                         – Defaults(),
//   • optional `.env`                              – dotenv values,
//   • `conf/contactform.yaml`                      – optional static file,
//   • `CONTACTFORM_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if a
// value is malformed.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Session section
//

// Session tunes the in-memory per-visitor form store.
type Session struct {
	IdleTTL       time.Duration `koanf:"idle_ttl"       validate:"gt=0"`
	MaxEntries    int           `koanf:"max_entries"    validate:"gt=0"`
	EvictInterval time.Duration `koanf:"evict_interval" validate:"gt=0"`
}

//
// Security section
//

// Security holds the CSRF signing key.  An empty key means a random,
// per-process key; tokens then die with the process.
type Security struct {
	CSRFKey string `koanf:"csrf_key" validate:"omitempty,base64rawurl"`
}

//
// Form section
//

// Form points at an optional YAML override of the embedded definition.
type Form struct {
	Definition string `koanf:"definition" validate:"omitempty,file"`
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database used to enrich access
// logs.  Empty disables the lookup.
type Geo struct {
	DBPath string `koanf:"db_path" validate:"omitempty,file"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CONTACTFORM_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Session  Session  `koanf:"session"`
	Security Security `koanf:"security"`
	Form     Form     `koanf:"form"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}

// Defaults returns the configuration used when no file or env overrides a
// key.
func Defaults() Config {
	return Config{
		HTTP: HTTP{ListenAddr: ":8080"},
		Session: Session{
			IdleTTL:       30 * time.Minute,
			MaxEntries:    10000,
			EvictInterval: time.Minute,
		},
	}
}
