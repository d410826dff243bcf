// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render call.  Handlers push
// tags into the builder, then the page template decides where to emit each
// slice.
//
// Features
// --------
//   - SetTitle     – single <title> tag (last call wins).
//   - Meta, Script – arbitrary pre-escaped tags, deduplicated.
//   - Render helpers return template.HTML.
package head

import (
	"html/template"
	"strings"
)

// Builder is not safe for concurrent use; build one per render.
type Builder struct {
	title   string
	metas   []string
	scripts []string
	seen    map[string]struct{}
}

// New returns a Builder preloaded with the charset and viewport metas.
func New() *Builder {
	b := &Builder{seen: make(map[string]struct{})}
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	return b
}

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }

// ScriptSrc adds a deferred external script.
func (b *Builder) ScriptSrc(src string) {
	tag := `<script src="` + template.HTMLEscapeString(src) + `" defer></script>`
	b.add("script:"+tag, &b.scripts, tag)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from page templates
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
