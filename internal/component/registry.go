// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  `contactform serve` calls
// Init(env) on every component that implements Initializer, then mounts
// each component's Routes() at “/”.

package component

import (
	"io"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/config"
)

// Env exposes process-wide resources to Components during Init.
type Env struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	Stdout io.Writer // target of the "stdout" form action
}

// Initializer is optional.  If a Component implements it, serve calls
// Init(env) once before mounting routes.
type Initializer interface {
	Init(Env) error
}

// Component contract.
//
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/", getForm)
//	r.Route("/api", func(api chi.Router) { ... })
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
